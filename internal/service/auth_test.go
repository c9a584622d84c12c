package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/tokens"
)

func TestAuthService_Signup_TokenSubjectIsNewUserID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.seedBookstore(t, "Pages & Co")

	pair, err := env.auth.Signup(ctx, "reader@example.com", "Secret123", store.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	user, err := env.repo.FindUserByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, store.ID, user.BookstoreID)
	require.NotNil(t, user.HashedRefreshToken)

	accessClaims, err := tokens.AccessClaimsFromToken(pair.AccessToken, env.auth.Issuer.AccessSecret)
	require.NoError(t, err)
	accessSub, err := tokens.UserID(accessClaims.Subject)
	require.NoError(t, err)
	assert.Equal(t, user.ID, accessSub)
	assert.Equal(t, "reader@example.com", accessClaims.Email)

	refreshClaims, err := tokens.RefreshClaimsFromToken(pair.RefreshToken, env.auth.Issuer.RefreshSecret)
	require.NoError(t, err)
	refreshSub, err := tokens.UserID(refreshClaims.Subject)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshSub)
	assert.NotEmpty(t, refreshClaims.ID)
}

func TestAuthService_Signup_DuplicateEmail_Conflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.seedBookstore(t, "Pages & Co")

	_, err := env.auth.Signup(ctx, "reader@example.com", "Secret123", store.ID)
	require.NoError(t, err)

	pair, err := env.auth.Signup(ctx, "reader@example.com", "OtherSecret", store.ID)
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Where("email = ?", "reader@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAuthService_Signup_UnknownBookstore_Conflict(t *testing.T) {
	env := newTestEnv(t)

	pair, err := env.auth.Signup(context.Background(), "reader@example.com", "Secret123", 42)
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_Signin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.seedBookstore(t, "Pages & Co")
	env.seedUser(t, store.ID, "reader@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "valid credentials", email: "reader@example.com", password: "Secret123"},
		{name: "wrong password", email: "reader@example.com", password: "nope", wantErr: true},
		{name: "unknown email", email: "ghost@example.com", password: "Secret123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := env.auth.Signin(ctx, tt.email, tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, pair)
				assert.ErrorIs(t, err, ErrAuthentication)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, pair.AccessToken)
			require.NotEmpty(t, pair.RefreshToken)
		})
	}
}

func TestAuthService_Signin_RotatesPreviousRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.seedBookstore(t, "Pages & Co")
	user := env.seedUser(t, store.ID, "reader@example.com")

	first, err := env.auth.Signin(ctx, "reader@example.com", "Secret123")
	require.NoError(t, err)

	_, err = env.auth.Signin(ctx, "reader@example.com", "Secret123")
	require.NoError(t, err)

	// the first refresh token was overwritten by the second signin
	pair, err := env.auth.Refresh(ctx, user.ID, first.RefreshToken)
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthService_Refresh_RotatesAndIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.seedBookstore(t, "Pages & Co")
	user := env.seedUser(t, store.ID, "reader@example.com")

	loginPair, err := env.auth.Signin(ctx, "reader@example.com", "Secret123")
	require.NoError(t, err)

	refreshed, err := env.auth.Refresh(ctx, user.ID, loginPair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEmpty(t, refreshed.RefreshToken)
	assert.NotEqual(t, loginPair.RefreshToken, refreshed.RefreshToken)

	// presenting the consumed token again fails
	again, err := env.auth.Refresh(ctx, user.ID, loginPair.RefreshToken)
	require.Error(t, err)
	assert.Nil(t, again)
	assert.ErrorIs(t, err, ErrAuthentication)

	// the rotated token works exactly once more
	_, err = env.auth.Refresh(ctx, user.ID, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestAuthService_Refresh_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	pair, err := env.auth.Refresh(context.Background(), 42, "whatever")
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthService_Logout_InvalidatesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.seedBookstore(t, "Pages & Co")
	user := env.seedUser(t, store.ID, "reader@example.com")

	loginPair, err := env.auth.Signin(ctx, "reader@example.com", "Secret123")
	require.NoError(t, err)

	require.NoError(t, env.auth.Logout(ctx, user.ID))

	stored, err := env.repo.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.HashedRefreshToken)

	pair, err := env.auth.Refresh(ctx, user.ID, loginPair.RefreshToken)
	require.Error(t, err)
	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := env.seedBookstore(t, "Pages & Co")
	user := env.seedUser(t, store.ID, "reader@example.com")

	require.NoError(t, env.auth.Logout(ctx, user.ID))
	require.NoError(t, env.auth.Logout(ctx, user.ID))

	// unknown users succeed too: logout is not an existence check
	require.NoError(t, env.auth.Logout(ctx, 9999))
}
