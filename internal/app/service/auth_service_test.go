package service

import (
	"context"
	"testing"
	"time"

	"solvehub/internal/common"
	"solvehub/internal/common/security"
	"solvehub/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenIssuer() *security.TokenIssuer {
	return security.NewTokenIssuer([]byte("test-secret"), time.Hour)
}

func TestSignupAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testTokenIssuer())
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, model.RoleUser, resp.User.Role)
	assert.Equal(t, "maria", resp.User.DisplayName, "display name falls back to username")
	assert.Empty(t, resp.User.HashedPassword)
	assert.True(t, resp.User.IsActive)

	byEmail, err := svc.Login(ctx, LoginRequest{LoginField: "maria@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, byEmail.User.ID)

	byUsername, err := svc.Login(ctx, LoginRequest{LoginField: "maria", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, byUsername.User.ID)
}

func TestSignupValidation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testTokenIssuer())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "a", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Signup(ctx, SignupRequest{Username: "a", Email: "not-an-email", Password: "longenough"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Signup(ctx, SignupRequest{Email: "a@b.c", Password: "longenough"})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestSignupDuplicateConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testTokenIssuer())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "maria", Email: "maria@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Username: "maria", Email: "other@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testTokenIssuer())
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "maria", Email: "maria@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{LoginField: "maria", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{LoginField: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, common.ErrUnauthorized, "unknown account and bad password must be indistinguishable")
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testTokenIssuer())
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "maria", Email: "maria@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, resp.User.ID, false))

	_, err = svc.Login(ctx, LoginRequest{LoginField: "maria", Password: "correct-horse"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}
