package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/repo"
	"github.com/ekoval/bookrental/internal/tokens"
)

type testEnv struct {
	db    *gorm.DB
	repo  *repo.GormRepo
	auth  *AuthService
	books *BookService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, or each pooled conn gets its own empty :memory: db
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Bookstore{}, &models.User{}, &models.Book{}, &models.Rental{}))

	r := &repo.GormRepo{DB: db}
	issuer := &tokens.Issuer{
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}

	return &testEnv{
		db:   db,
		repo: r,
		auth: &AuthService{
			Repo:       r,
			Issuer:     issuer,
			BcryptCost: 4,
		},
		books: &BookService{Repo: r},
	}
}

func (env *testEnv) seedBookstore(t *testing.T, name string) *models.Bookstore {
	t.Helper()

	store := models.Bookstore{Name: name, Location: "Springfield"}
	require.NoError(t, env.db.Create(&store).Error)
	return &store
}

func (env *testEnv) seedBook(t *testing.T, storeID uint, title, author string, quantity int) *models.Book {
	t.Helper()

	book := models.Book{Title: title, Author: author, Quantity: quantity, BookstoreID: storeID}
	require.NoError(t, env.db.Create(&book).Error)
	return &book
}

func (env *testEnv) seedUser(t *testing.T, storeID uint, email string) *models.User {
	t.Helper()

	ctx := context.Background()
	pair, err := env.auth.Signup(ctx, email, "Secret123", storeID)
	require.NoError(t, err)
	require.NotNil(t, pair)

	user, err := env.repo.FindUserByEmail(ctx, email)
	require.NoError(t, err)
	return user
}
