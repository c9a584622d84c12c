package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ekoval/bookrental/internal/middleware"
	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/repo"
	"github.com/ekoval/bookrental/internal/service"
	"github.com/ekoval/bookrental/internal/tokens"
	"github.com/ekoval/bookrental/internal/transport"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event any
}

type stubPublisher struct {
	events []recordedEvent
}

func (p *stubPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

type testServer struct {
	e         *echo.Echo
	db        *gorm.DB
	repo      *repo.GormRepo
	publisher *stubPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Bookstore{}, &models.User{}, &models.Book{}, &models.Rental{}))

	r := &repo.GormRepo{DB: db}
	issuer := &tokens.Issuer{
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}

	publisher := &stubPublisher{}

	e := echo.New()
	Register(e, &Deps{
		Auth: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:       r,
				Issuer:     issuer,
				BcryptCost: 4,
			},
			Producer: publisher,
		},
		Books: &BooksHTTP{
			Svc:      &service.BookService{Repo: r},
			Producer: publisher,
		},
		Bookstores: &BookstoresHTTP{Repo: r},
		AuthMw: &middleware.Auth{
			Repo:          r,
			AccessSecret:  issuer.AccessSecret,
			RefreshSecret: issuer.RefreshSecret,
		},
	})

	return &testServer{e: e, db: db, repo: r, publisher: publisher}
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) seedBookstore(t *testing.T, name string) *models.Bookstore {
	t.Helper()

	store := models.Bookstore{Name: name, Location: "Springfield"}
	require.NoError(t, s.db.Create(&store).Error)
	return &store
}

func (s *testServer) seedBook(t *testing.T, storeID uint, title, author string, quantity int) *models.Book {
	t.Helper()

	book := models.Book{Title: title, Author: author, Quantity: quantity, BookstoreID: storeID}
	require.NoError(t, s.db.Create(&book).Error)
	return &book
}

func (s *testServer) signup(t *testing.T, email string, storeID uint) transport.TokensResponse {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/auth/signup", "", transport.SignupRequest{
		Email:       email,
		Password:    "Secret123",
		BookstoreID: storeID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp transport.TokensResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp
}
