package sql

import (
	"context"
	"errors"
	"testing"

	"lenshive/internal/entity"

	"gorm.io/gorm"
)

func TestCreateUserAssignsUUIDAndDefaultRole(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := &entity.DbUser{
		Email:        "a@x.com",
		FullName:     "Ada",
		PasswordHash: "hash",
		IsActive:     true,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected a uuid to be assigned")
	}
	if user.Role != entity.UserRoleCustomer {
		t.Fatalf("expected default role customer, got %s", user.Role)
	}

	loaded, err := repo.GetUserByEmail(ctx, "A@X.COM")
	if err != nil {
		t.Fatalf("failed to load user by email: %v", err)
	}
	if loaded.ID != user.ID {
		t.Fatalf("expected id %s, got %s", user.ID, loaded.ID)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := &entity.DbUser{Email: "dup@x.com", FullName: "First", PasswordHash: "hash", IsActive: true}
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	second := &entity.DbUser{Email: "dup@x.com", FullName: "Second", PasswordHash: "hash", IsActive: true}
	err := repo.CreateUser(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := &entity.DbUser{Email: "u@x.com", FullName: "Before", PasswordHash: "hash", IsActive: true}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	name := "After"
	role := entity.UserRoleStaff
	if err := repo.UpdateUser(ctx, user.ID, entity.UserUpdates{FullName: &name, Role: &role}); err != nil {
		t.Fatalf("failed to update user: %v", err)
	}

	loaded, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if loaded.FullName != "After" || loaded.Role != entity.UserRoleStaff {
		t.Fatalf("unexpected state after update: %+v", loaded)
	}
	if loaded.Email != "u@x.com" {
		t.Fatalf("email should be untouched, got %s", loaded.Email)
	}
}

func TestDeleteUserMissing(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.DeleteUser(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
