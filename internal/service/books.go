package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ekoval/bookrental/internal/logging"
	"github.com/ekoval/bookrental/internal/models"
	"github.com/ekoval/bookrental/internal/repo"
)

// BookService owns the rental ledger: inventory reads scoped to the
// caller's bookstore, and the rent/return transitions.
type BookService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

func (s *BookService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *BookService) ListBooks(ctx context.Context, user *models.User) ([]models.Book, error) {
	return s.Repo.ListBooks(ctx, user.BookstoreID)
}

func (s *BookService) SearchBooks(ctx context.Context, user *models.User, query string) ([]models.Book, error) {
	return s.Repo.SearchBooks(ctx, user.BookstoreID, query)
}

func (s *BookService) GetBook(ctx context.Context, user *models.User, bookID uint) (*models.Book, error) {
	book, err := s.Repo.GetBook(ctx, user.BookstoreID, bookID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	return book, err
}

func (s *BookService) MyRentals(ctx context.Context, user *models.User) ([]models.Rental, error) {
	return s.Repo.ListRentals(ctx, user.ID)
}

// RentBook takes one copy for the caller inside a single transaction.
// The quantity decrement is guarded in SQL and the open-rental pair is
// backed by a partial unique index, so neither invariant depends on the
// reads above them staying fresh.
func (s *BookService) RentBook(ctx context.Context, user *models.User, bookID uint) (*models.Book, error) {
	l := logging.FromContext(ctx).With("svc", "books.rent", "book_id", bookID, "user_id", user.ID)

	var out *models.Book
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		book, err := tx.GetBook(ctx, user.BookstoreID, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}
		if book.Quantity == 0 {
			return ErrUnavailable
		}

		open, err := tx.FindOpenRental(ctx, bookID, user.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return ErrAlreadyRented
		}

		rental := models.Rental{BookID: bookID, UserID: user.ID, CreatedAt: s.now()}
		if err := tx.CreateRental(ctx, &rental); err != nil {
			if repo.IsDuplicate(err) {
				return ErrAlreadyRented
			}
			return err
		}

		n, err := tx.DecrementQuantity(ctx, bookID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrUnavailable
		}

		out, err = tx.GetBook(ctx, user.BookstoreID, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("book_rented")
	return out, nil
}

func (s *BookService) ReturnBook(ctx context.Context, user *models.User, bookID uint) (*models.Book, error) {
	l := logging.FromContext(ctx).With("svc", "books.return", "book_id", bookID, "user_id", user.ID)

	var out *models.Book
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		_, err := tx.GetBook(ctx, user.BookstoreID, bookID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		open, err := tx.FindOpenRental(ctx, bookID, user.ID)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrNoActiveRental
		}

		if err := tx.MarkReturned(ctx, open.ID, s.now()); err != nil {
			return err
		}
		if err := tx.IncrementQuantity(ctx, bookID); err != nil {
			return err
		}

		out, err = tx.GetBook(ctx, user.BookstoreID, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("book_returned")
	return out, nil
}
