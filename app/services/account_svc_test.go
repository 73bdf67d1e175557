package services

import (
	"context"
	"testing"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/db/dbtest"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/models"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBecomeArtisan(t *testing.T) {
	db := dbtest.Open(t)
	s := NewAccountService(repositories.NewUserRepository(db), zap.NewNop())
	ctx := context.Background()

	customer := dbtest.CreateUser(t, db, "rahim", models.RoleCustomer)
	require.NoError(t, s.BecomeArtisan(ctx, customer))
	assert.Equal(t, models.RoleArtisan, customer.Role)

	err := s.BecomeArtisan(ctx, customer)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "You are already an artisan", Detail(err, ""))

	admin := dbtest.CreateUser(t, db, "root", models.RoleAdmin)
	assert.ErrorIs(t, s.BecomeArtisan(ctx, admin), ErrInvalidState)
}

func TestPromoteAndDelete(t *testing.T) {
	db := dbtest.Open(t)
	s := NewAccountService(repositories.NewUserRepository(db), zap.NewNop())
	ctx := context.Background()
	user := dbtest.CreateUser(t, db, "rahim", models.RoleCustomer)

	_, err := s.Promote(ctx, user.ID, "artisan")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = s.Promote(ctx, 999, "admin")
	assert.ErrorIs(t, err, ErrNotFound)

	promoted, err := s.Promote(ctx, user.ID, " Admin ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	name := "Rahim Uddin"
	updated, err := s.AdminUpdateUser(ctx, user.ID, ProfileUpdate{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, *updated.FullName)

	require.NoError(t, s.DeleteUser(ctx, user.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, user.ID), ErrNotFound)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
