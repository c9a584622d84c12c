package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ekoval/bookrental/internal/hash"
	"github.com/ekoval/bookrental/internal/logging"
	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/repo"
	"github.com/ekoval/bookrental/internal/tokens"
)

type AuthService struct {
	Repo       *repo.GormRepo
	Issuer     *tokens.Issuer
	BcryptCost int
}

// Signup registers a user under a bookstore and logs them in. An
// unknown bookstore and a taken email both surface as ErrConflict, as
// the unique-constraint and foreign-key violations they are.
func (s *AuthService) Signup(ctx context.Context, email, password string, bookstoreID uint) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	exists, err := s.Repo.BookstoreExists(ctx, bookstoreID)
	if err != nil {
		return nil, err
	}
	if !exists {
		l.Warn("signup_rejected", "reason", "unknown bookstore", "bookstore_id", bookstoreID)
		return nil, ErrConflict
	}

	pwHash, err := hash.HashPassword(password, s.BcryptCost)
	if err != nil {
		l.Error("signup_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		BookstoreID:  bookstoreID,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if repo.IsDuplicate(err) {
			l.Warn("signup_rejected", "reason", "email already registered")
			return nil, ErrConflict
		}
		return nil, err
	}

	return s.issueAndStore(ctx, &user)
}

func (s *AuthService) Signin(ctx context.Context, email, password string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signin")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthentication
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("signin_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrAuthentication
	}

	// Issuing overwrites the stored refresh hash, so the previous
	// refresh token stops working here.
	return s.issueAndStore(ctx, user)
}

// Logout clears the stored refresh hash. It is not an existence check:
// an unknown user or an already-cleared hash still succeeds.
func (s *AuthService) Logout(ctx context.Context, userID uint) error {
	return s.Repo.ClearRefreshHash(ctx, userID)
}

// Refresh rotates the token pair. The swap is a compare-and-swap on
// the stored hash, so a refresh token survives exactly one use.
func (s *AuthService) Refresh(ctx context.Context, userID uint, presented string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh", "user_id", userID)

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthentication
		}
		return nil, err
	}
	if user.HashedRefreshToken == nil {
		l.Warn("refresh_failed", "reason", "no stored refresh token")
		return nil, ErrAuthentication
	}
	if !hash.CheckSha256Hex(*user.HashedRefreshToken, presented) {
		l.Warn("refresh_failed", "reason", "refresh token mismatch")
		return nil, ErrAuthentication
	}

	pair, err := s.Issuer.NewPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	rotated, err := s.Repo.RotateRefreshHash(ctx, user.ID, *user.HashedRefreshToken, hash.Sha256Hex(pair.RefreshToken))
	if err != nil {
		return nil, err
	}
	if rotated == 0 {
		l.Warn("refresh_failed", "reason", "lost rotation race")
		return nil, ErrAuthentication
	}

	return pair, nil
}

func (s *AuthService) issueAndStore(ctx context.Context, user *models.User) (*tokens.Pair, error) {
	pair, err := s.Issuer.NewPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetRefreshHash(ctx, user.ID, hash.Sha256Hex(pair.RefreshToken)); err != nil {
		return nil, err
	}
	return pair, nil
}
