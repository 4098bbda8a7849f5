package model

import (
	"context"
	"errors"
	"strings"

	"lenshive/internal/auth"
	"lenshive/internal/config"
	"lenshive/internal/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedDefaultAdmin creates the bootstrap admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are configured and no account with that email exists yet.
func SeedDefaultAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	password := strings.TrimSpace(cfg.AdminPassword)
	if email == "" || password == "" {
		return nil
	}

	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entity.DbUser{
		Email:        email,
		FullName:     strings.TrimSpace(cfg.AdminName),
		PasswordHash: hash,
		Role:         entity.UserRoleAdmin,
		IsActive:     true,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		return err
	}

	logrus.WithField("email", email).Info("seeded default admin account")
	return nil
}
