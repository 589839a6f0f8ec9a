package users_test

import (
	"testing"

	userstore "github.com/campuschat/campuschat/internal/app/store/users"
	"github.com/campuschat/campuschat/internal/domain/models"
	"github.com/campuschat/campuschat/internal/testutil"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:         "Alice",
		Email:        "alice@thapar.edu",
		PasswordHash: "hash",
		Branch:       "civil",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	user := models.User{Name: "Alice", Email: "alice@thapar.edu", PasswordHash: "h", Branch: "civil"}
	if _, err := store.Create(ctx, user); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, user)
	if err == nil {
		t.Fatal("expected duplicate email to fail")
	}
	if !wafflemongo.IsDup(err) {
		t.Errorf("expected duplicate-key error, got %v", err)
	}
}

func TestFindByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Bob", "bob@thapar.edu", "secret123", "mechanical")

	user, err := store.FindByEmail(ctx, "bob@thapar.edu")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if user.Name != "Bob" || user.Branch != "mechanical" {
		t.Errorf("user = %+v", user)
	}

	if _, err := store.FindByEmail(ctx, "nobody@thapar.edu"); err != mongo.ErrNoDocuments {
		t.Errorf("missing user: %v, want mongo.ErrNoDocuments", err)
	}
}

func TestEmailRegistered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Bob", "bob@thapar.edu", "secret123", "mechanical")

	registered, err := store.EmailRegistered(ctx, "bob@thapar.edu")
	if err != nil {
		t.Fatalf("EmailRegistered failed: %v", err)
	}
	if !registered {
		t.Error("expected bob@thapar.edu to be registered")
	}

	registered, err = store.EmailRegistered(ctx, "nobody@thapar.edu")
	if err != nil {
		t.Fatalf("EmailRegistered failed: %v", err)
	}
	if registered {
		t.Error("expected nobody@thapar.edu to be unregistered")
	}
}
