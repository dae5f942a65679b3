package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/ordering/internal/domain"
	"github.com/vladislavdragonenkov/ordering/internal/storage/memory"
)

func TestCustomerRepository_CreateUpdateFind(t *testing.T) {
	repo := memory.NewCustomerRepository()

	customer, err := domain.NewCustomer("123", "Customer 1")
	if err != nil {
		t.Fatalf("new customer: %v", err)
	}
	if err := repo.Create(customer); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(customer); !errors.Is(err, domain.ErrCustomerAlreadyExists) {
		t.Fatalf("expected ErrCustomerAlreadyExists, got %v", err)
	}

	address, err := domain.NewAddress("Street 1", 1, "Zipcode 1", "City 1")
	if err != nil {
		t.Fatalf("new address: %v", err)
	}
	customer.ChangeAddress(address)
	if err := customer.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := customer.AddRewardPoints(7); err != nil {
		t.Fatalf("reward points: %v", err)
	}
	if err := repo.Update(customer); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	stored, err := repo.Find("123")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	got, ok := stored.Address()
	if !ok || got != address {
		t.Fatalf("unexpected address: %+v", got)
	}
	if !stored.IsActive() || stored.RewardPoints() != 7 || stored.Name() != "Customer 1" {
		t.Fatalf("unexpected customer state: active=%v points=%d name=%s", stored.IsActive(), stored.RewardPoints(), stored.Name())
	}
}

func TestCustomerRepository_Missing(t *testing.T) {
	repo := memory.NewCustomerRepository()

	if _, err := repo.Find("nope"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}

	customer, err := domain.NewCustomer("nope", "Ghost")
	if err != nil {
		t.Fatalf("new customer: %v", err)
	}
	if err := repo.Update(customer); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound on update, got %v", err)
	}
}

func TestCustomerRepository_FindAll(t *testing.T) {
	repo := memory.NewCustomerRepository()
	for _, id := range []string{"b", "a"} {
		c, err := domain.NewCustomer(id, "Customer "+id)
		if err != nil {
			t.Fatalf("new customer: %v", err)
		}
		if err := repo.Create(c); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	all, err := repo.FindAll()
	if err != nil {
		t.Fatalf("find all failed: %v", err)
	}
	if len(all) != 2 || all[0].ID() != "a" || all[1].ID() != "b" {
		t.Fatalf("unexpected customers: %+v", all)
	}
}
