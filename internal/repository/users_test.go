package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/testutil"
	"gorm.io/gorm"
)

func TestGormUserRepository_UsernameUnique(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	testutil.SeedUser(t, db, "alice", "pw")

	taken, err := repo.UsernameTaken(ctx, "alice")
	if err != nil || !taken {
		t.Fatalf("expected alice to be taken, got %v (err=%v)", taken, err)
	}

	err = repo.Create(ctx, &model.User{Username: "alice", Password: "x"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestGormUserRepository_UpdatePassword(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "bob", "pw")

	if err := repo.UpdatePassword(ctx, user.ID, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	got, err := repo.FindByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("FindByUsername returned error: %v", err)
	}
	if got.Password != "new-hash" {
		t.Errorf("expected password to be replaced, got %q", got.Password)
	}

	if err := repo.UpdatePassword(ctx, user.ID+99, "x"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for unknown user, got %v", err)
	}
}

func TestGormAuditRepository_RecordAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()

	if err := repo.Record(ctx, model.BookEntity, "create", 7, map[string]any{"isbn": "978"}); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if err := repo.Record(ctx, model.BookEntity, "delete", 7, nil); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}

	logs, err := repo.List(ctx, model.BookEntity, 7)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(logs))
	}
	if logs[0].Action != "create" || logs[0].Payload != `{"isbn":"978"}` {
		t.Errorf("unexpected first row: %+v", logs[0])
	}
	if logs[1].Payload != "null" {
		t.Errorf("expected null payload, got %q", logs[1].Payload)
	}
}
