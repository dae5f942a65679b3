package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    loadMode
		wantErr string
	}{
		{name: "place", input: "place", want: modePlace},
		{name: "place-add", input: " place-add ", want: modePlaceAdd},
		{name: "unsupported", input: "create-pay", wantErr: "unsupported mode"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseMode(tc.input)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("unexpected mode: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParseConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parseConfig(nil, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, 400, cfg.total)
		assert.Equal(t, 40, cfg.concurrency)
		assert.Equal(t, modePlace, cfg.mode)
		assert.True(t, cfg.price.Equal(decimal.NewFromInt(10)))
	})

	t.Run("custom", func(t *testing.T) {
		cfg, err := parseConfig([]string{
			"-total=5", "-concurrency=2", "-mode=place-add", "-price=2.50", "-quantity=3", "-customer-tag=bench",
		}, io.Discard)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.total)
		assert.Equal(t, modePlaceAdd, cfg.mode)
		assert.Equal(t, "2.5", cfg.price.String())
		assert.Equal(t, 3, cfg.quantity)
		assert.Equal(t, "bench", cfg.customerTag)
	})

	invalid := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "total", args: []string{"-total=0"}, wantErr: "total must be > 0"},
		{name: "concurrency", args: []string{"-concurrency=0"}, wantErr: "concurrency must be > 0"},
		{name: "price format", args: []string{"-price=abc"}, wantErr: "parse price"},
		{name: "price sign", args: []string{"-price=0"}, wantErr: "price must be > 0"},
		{name: "quantity", args: []string{"-quantity=-1"}, wantErr: "quantity must be > 0"},
		{name: "tag", args: []string{"-customer-tag= "}, wantErr: "customer-tag is required"},
		{name: "mode", args: []string{"-mode=pay"}, wantErr: "unsupported mode"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseConfig(tc.args, io.Discard)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, outcomeOK, outcome(nil))
	assert.Equal(t, "update_failed", outcome(domain.UpdateFailed(domain.ErrOrderNotFound)))
	assert.Equal(t, "not_found", outcome(fmt.Errorf("find customer: %w", domain.ErrCustomerNotFound)))
	assert.Equal(t, "already_exists", outcome(domain.ErrProductAlreadyExists))
	assert.Equal(t, "error", outcome(errors.New("boom")))
}

func TestDispatchJobs(t *testing.T) {
	jobs := make(chan int, 10)
	dispatchJobs(context.Background(), jobs, 3)

	var got []int
	for id := range jobs {
		got = append(got, id)
	}
	assert.Equal(t, []int{0, 1, 2}, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocked := make(chan int)
	dispatchJobs(ctx, blocked, 100)
	_, open := <-blocked
	assert.False(t, open)
}

func TestCollectorAndReport(t *testing.T) {
	c := newCollector()
	c.record("scenario", 10*time.Millisecond, nil)
	c.record("scenario", 20*time.Millisecond, domain.ErrCustomerNotFound)
	c.record("PlaceOrder", 15*time.Millisecond, nil)

	r := c.buildReport(time.Now(), 2*time.Second)
	assert.EqualValues(t, 2, r.TotalScenarios)
	assert.EqualValues(t, 1, r.FailedScenarios)
	assert.InDelta(t, 0.5, r.ErrorRate, 1e-9)
	assert.InDelta(t, 1.0, r.OPS, 1e-9)
	assert.EqualValues(t, 1, r.Operations["scenario"].Outcomes["not_found"])
	assert.Contains(t, r.Operations, "PlaceOrder")
}

func TestLatencyHelpers(t *testing.T) {
	assert.Equal(t, 0.25, ratio(1, 4))
	assert.Equal(t, 0.0, ratio(1, 0))

	values := []float64{10, 20, 30, 40}
	summary := buildLatencySummary(values)
	assert.Equal(t, 10.0, summary.Min)
	assert.Equal(t, 40.0, summary.Max)
	assert.Equal(t, 25.0, summary.Avg)
	assert.Equal(t, 25.0, summary.P50)
	assert.Equal(t, latencySummary{}, buildLatencySummary(nil))
	assert.Equal(t, 7.0, percentile([]float64{7}, 99))
}

func TestWriteJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, writeJSONReport(path, report{TotalScenarios: 2, SuccessScenarios: 2, Revenue: "20.00"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 2, decoded.TotalScenarios)
	assert.Equal(t, "20.00", decoded.Revenue)

	require.Error(t, writeJSONReport(".", report{}))
}

func TestRunInMemory(t *testing.T) {
	t.Setenv("ORDERING_STORAGE_DRIVER", "memory")

	cfg, err := parseConfig([]string{"-total=10", "-concurrency=4", "-mode=place-add", "-price=10"}, io.Discard)
	require.NoError(t, err)
	cfg.outputPath = filepath.Join(t.TempDir(), "out.json")

	var out bytes.Buffer
	result, err := run(context.Background(), cfg, &out)
	require.NoError(t, err)

	assert.EqualValues(t, 10, result.TotalScenarios)
	assert.EqualValues(t, 0, result.FailedScenarios)
	assert.Equal(t, "200.00", result.Revenue)
	assert.EqualValues(t, 10, result.Operations["AddItems"].Success)
	assert.Contains(t, out.String(), "Load test summary")
	assert.Contains(t, out.String(), "PlaceOrder: calls=10")
	assert.FileExists(t, cfg.outputPath)
}
