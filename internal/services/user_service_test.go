package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creator-marketplace/backend/internal/apperr"
	"github.com/creator-marketplace/backend/internal/auth"
	"github.com/creator-marketplace/backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, token, err := env.users.Register(ctx, RegisterInput{
		Email:       "New@Example.COM",
		Password:    "correct-horse",
		Role:        models.RoleCreator,
		DisplayName: "New Creator",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.NotEmpty(t, token)

	claims, err := auth.ParseJWT(env.cfg.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleCreator, claims.Role)

	// duplicate email
	_, _, err = env.users.Register(ctx, RegisterInput{
		Email:       "new@example.com",
		Password:    "correct-horse",
		Role:        models.RoleBrand,
		DisplayName: "Impostor",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	logged, token, err := env.users.Login(ctx, "new@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	_, _, err = env.users.Login(ctx, "new@example.com", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	_, _, err = env.users.Login(ctx, "nobody@example.com", "correct-horse")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"bad email", RegisterInput{Email: "not-an-email", Password: "longenough", Role: models.RoleBrand, DisplayName: "x"}},
		{"short password", RegisterInput{Email: "a@b.test", Password: "short", Role: models.RoleBrand, DisplayName: "x"}},
		{"bad role", RegisterInput{Email: "a@b.test", Password: "longenough", Role: "admin", DisplayName: "x"}},
		{"no display name", RegisterInput{Email: "a@b.test", Password: "longenough", Role: models.RoleBrand}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := env.users.Register(ctx, tc.in)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		})
	}
}
