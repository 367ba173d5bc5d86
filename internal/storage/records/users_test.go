package records

import (
	"bytes"
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/storage"
)

func newRider(name, email string) model.User {
	return model.User{Name: name, Email: email, PasswordHash: "hash", Role: model.RoleRider, Status: model.RiderStatusAvailable}
}

func TestUserCreateAndLookup(t *testing.T) {
	docs, _ := newDocs(t)
	repo := docs.Users()
	ctx := context.Background()

	created, err := repo.Create(ctx, newRider("Rita", " Rita@Example.com "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "1" || created.Email != "rita@example.com" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected user: %+v", created)
	}

	byEmail, err := repo.GetByEmail(ctx, "RITA@example.com")
	if err != nil || byEmail.ID != created.ID {
		t.Fatalf("unexpected lookup by email: %+v err=%v", byEmail, err)
	}
	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil || byID.Name != "Rita" {
		t.Fatalf("unexpected lookup by id: %+v err=%v", byID, err)
	}

	if _, err := repo.Create(ctx, newRider("Other", "rita@EXAMPLE.com")); !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetByID(ctx, "99"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	users, err := repo.List(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("expected one user, got %d err=%v", len(users), err)
	}
}

func TestUserAndOrderSequencesAreIndependent(t *testing.T) {
	docs, _ := newDocs(t)
	ctx := context.Background()

	if _, err := docs.Orders().Create(ctx, newOrderFields("Alice")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	user, err := docs.Users().Create(ctx, newRider("Rita", "rita@example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "1" {
		t.Fatalf("expected first user id 1, got %q", user.ID)
	}
}

func TestUserUpdate(t *testing.T) {
	docs, _ := newDocs(t)
	repo := docs.Users()
	ctx := context.Background()

	rita, _ := repo.Create(ctx, newRider("Rita", "rita@example.com"))
	sam, _ := repo.Create(ctx, newRider("Sam", "sam@example.com"))

	updated, err := repo.Update(ctx, rita.ID, func(u *model.User) error {
		u.Status = model.RiderStatusBusy
		u.CurrentLocation = &model.Location{Lat: -1.28, Lng: 36.82}
		u.ID = "tampered"
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != rita.ID || updated.Status != model.RiderStatusBusy || updated.CurrentLocation == nil {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.UpdatedAt.After(rita.UpdatedAt) {
		t.Fatal("expected updatedAt to advance")
	}

	if _, err := repo.Update(ctx, sam.ID, func(u *model.User) error {
		u.Email = "RITA@example.com"
		return nil
	}); !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}

	guard := errors.New("guard")
	if _, err := repo.Update(ctx, sam.ID, func(*model.User) error { return guard }); !errors.Is(err, guard) {
		t.Fatalf("expected guard error, got %v", err)
	}
	if _, err := repo.Update(ctx, "404", func(*model.User) error { return nil }); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserDelete(t *testing.T) {
	docs, _ := newDocs(t)
	repo := docs.Users()
	ctx := context.Background()

	rider, _ := repo.Create(ctx, newRider("Rita", "rita@example.com"))
	manager, _ := repo.Create(ctx, model.User{Name: "Max", Email: "max@example.com", Role: model.RoleManager})

	if err := repo.Delete(ctx, manager.ID, model.RoleRider); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected manager to be invisible to rider delete, got %v", err)
	}
	if err := repo.Delete(ctx, rider.ID, model.RoleRider); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, rider.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected rider gone, got %v", err)
	}
	if err := repo.Delete(ctx, rider.ID, model.RoleRider); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserDeleteVerifiesRemoval(t *testing.T) {
	docs, store := newDocs(t)
	repo := docs.Users()
	ctx := context.Background()

	rider, _ := repo.Create(ctx, newRider("Rita", "rita@example.com"))

	store.Intercept = func(collection string, document []byte) ([]byte, error) {
		if collection != storage.CollectionUsers {
			return document, nil
		}
		previous, _ := store.Document(collection)
		if bytes.Contains(previous, []byte(`"rita@example.com"`)) {
			return previous, nil
		}
		return document, nil
	}

	if err := repo.Delete(ctx, rider.ID, model.RoleRider); !errors.Is(err, domainErrors.ErrPersistence) {
		t.Fatalf("expected persistence error for a dropped write, got %v", err)
	}
}
