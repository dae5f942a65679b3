package gormstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestLockOrderRow_PostgresSelectsForUpdate(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=ordering dbname=ordering sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	stmt := lockOrderRow(db, "o1", &orderModel{}).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `FROM "orders"`)
	assert.Contains(t, sql, "FOR UPDATE")
	assert.Equal(t, []any{"o1"}, stmt.Vars[:1])
}
