package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/dispatch/internal/domain/errors"
	"github.com/polkiloo/dispatch/internal/domain/model"
	"github.com/polkiloo/dispatch/internal/storage"
	testhelpers "github.com/polkiloo/dispatch/internal/test"
)

func addRider(t *testing.T, env testEnv, name, email string) *model.User {
	t.Helper()
	rider, err := env.riders.Add(context.Background(), model.NewRider{Name: name, Email: email, Contact: "0712345678"})
	if err != nil {
		t.Fatalf("add rider: %v", err)
	}
	return rider
}

func TestRiderUseCaseAdd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rider := addRider(t, env, "Bob Rider", "bob@example.com")
	if rider.Role != model.RoleRider || rider.Status != model.RiderStatusAvailable || rider.PasswordHash != "" {
		t.Fatalf("unexpected rider %+v", rider)
	}

	withPassword, err := env.riders.Add(ctx, model.NewRider{Name: "Cat Rider", Email: "cat@example.com", Contact: "0712345679", Password: "pw"})
	if err != nil {
		t.Fatalf("add rider: %v", err)
	}
	if withPassword.PasswordHash != "hash:pw" {
		t.Fatalf("expected hashed password, got %q", withPassword.PasswordHash)
	}
	if _, _, err := env.auth.Authenticate(ctx, "cat@example.com", "pw"); err != nil {
		t.Fatalf("rider with password should sign in: %v", err)
	}

	if _, err := env.riders.Add(ctx, model.NewRider{Name: "Bob Again", Email: "BOB@example.com", Contact: "0712345670"}); !errors.Is(err, domainErrors.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
	if _, err := env.riders.Add(ctx, model.NewRider{Name: "R2D2", Email: "r2@example.com", Contact: "0712345678"}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRiderUseCaseAddRandomRiders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		name := testhelpers.RandomPersonName()
		contact := testhelpers.RandomContact()
		email := strings.ToLower(testhelpers.RandomASCIIString(6, 12)) + "@riders.example.com"

		rider, err := env.riders.Add(ctx, model.NewRider{Name: name, Email: email, Contact: contact})
		if err != nil {
			t.Fatalf("add %q %q: %v", name, contact, err)
		}
		got, err := env.riders.Get(ctx, rider.ID)
		if err != nil || got.Contact != contact {
			t.Fatalf("unexpected rider %+v err=%v", got, err)
		}
	}
}

func TestRiderUseCaseAddHashFailure(t *testing.T) {
	env := newTestEnv(t)
	hashErr := errors.New("hash failed")
	uc := NewRiderUseCase(env.docs.Users(), testhelpers.HasherStub{HashFn: func(string) (string, error) { return "", hashErr }})

	_, err := uc.Add(context.Background(), model.NewRider{Name: "Bob", Email: "bob@example.com", Contact: "0712345678", Password: "pw"})
	if !errors.Is(err, hashErr) {
		t.Fatalf("expected hash error, got %v", err)
	}
}

func TestRiderUseCaseListing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bob := addRider(t, env, "Bob Rider", "bob@example.com")
	cat := addRider(t, env, "Cat Rider", "cat@example.com")
	if _, _, err := env.auth.Register(ctx, managerRegistration()); err != nil {
		t.Fatalf("register manager: %v", err)
	}
	if _, err := env.riders.SetStatus(ctx, cat.ID, model.RiderStatusBusy); err != nil {
		t.Fatalf("set status: %v", err)
	}

	all, err := env.riders.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected two riders, got %v err=%v", all, err)
	}
	available, err := env.riders.ListAvailable(ctx)
	if err != nil || len(available) != 1 || available[0].ID != bob.ID {
		t.Fatalf("expected only bob available, got %v err=%v", available, err)
	}
}

func TestRiderUseCaseListTreatsMissingStatusAsAvailable(t *testing.T) {
	env := newTestEnv(t)
	env.store.Seed(storage.CollectionUsers, `{"users":[{"id":"1","name":"Old Rider","email":"old@example.com","role":"rider"}]}`)

	available, err := env.riders.ListAvailable(context.Background())
	if err != nil || len(available) != 1 {
		t.Fatalf("expected legacy rider to be available, got %v err=%v", available, err)
	}
}

func TestRiderUseCaseGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bob := addRider(t, env, "Bob Rider", "bob@example.com")
	manager, _, err := env.auth.Register(ctx, managerRegistration())
	if err != nil {
		t.Fatalf("register manager: %v", err)
	}

	got, err := env.riders.Get(ctx, bob.ID)
	if err != nil || got.Name != "Bob Rider" {
		t.Fatalf("unexpected rider %+v err=%v", got, err)
	}
	if _, err := env.riders.Get(ctx, manager.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected manager to be reported as not found, got %v", err)
	}
	if _, err := env.riders.Get(ctx, "404"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRiderUseCaseRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bob := addRider(t, env, "Bob Rider", "bob@example.com")
	manager, _, err := env.auth.Register(ctx, managerRegistration())
	if err != nil {
		t.Fatalf("register manager: %v", err)
	}

	if err := env.riders.Remove(ctx, manager.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected managers to be protected from rider removal, got %v", err)
	}
	if err := env.riders.Remove(ctx, bob.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := env.riders.Remove(ctx, bob.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected second removal to be not found, got %v", err)
	}
}

func TestRiderUseCaseSetStatusAndLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bob := addRider(t, env, "Bob Rider", "bob@example.com")
	updated, err := env.riders.SetStatus(ctx, bob.ID, model.RiderStatusBusy)
	if err != nil || updated.Status != model.RiderStatusBusy {
		t.Fatalf("unexpected status update %+v err=%v", updated, err)
	}
	if _, err := env.riders.SetStatus(ctx, bob.ID, "asleep"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	moved, err := env.riders.UpdateLocation(ctx, bob.ID, model.Location{Lat: -1.29, Lng: 36.82})
	if err != nil || moved.CurrentLocation == nil || moved.CurrentLocation.Lat != -1.29 {
		t.Fatalf("unexpected location update %+v err=%v", moved, err)
	}
	if _, err := env.riders.UpdateLocation(ctx, bob.ID, model.Location{Lat: 100}); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	manager, _, err := env.auth.Register(ctx, managerRegistration())
	if err != nil {
		t.Fatalf("register manager: %v", err)
	}
	if _, err := env.riders.SetStatus(ctx, manager.ID, model.RiderStatusBusy); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected manager status change to be not found, got %v", err)
	}
	if _, err := env.riders.SetStatus(ctx, "404", model.RiderStatusBusy); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
