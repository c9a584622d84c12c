package models

import "time"

// Bookstore is the tenancy root. Stores are created out-of-band; the
// service only ever reads them.
type Bookstore struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null"                 json:"name"`
	Location string `gorm:"not null"                 json:"location"`
}

type User struct {
	ID                 uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email              string  `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash       string  `gorm:"not null"                 json:"-"`
	HashedRefreshToken *string `json:"-"`
	BookstoreID        uint    `gorm:"index;not null"           json:"bookstore_id"`
}

type Book struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"not null"                 json:"title"`
	Author      string `gorm:"not null"                 json:"author"`
	Quantity    int    `gorm:"not null"                 json:"quantity"`
	BookstoreID uint   `gorm:"index;not null"           json:"bookstore_id"`
}

// Rental rows are never deleted; an open loan is a row with a null
// ReturnedAt. The partial unique index keeps a user from holding two
// open loans on the same book no matter how requests interleave.
type Rental struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"                                   json:"id"`
	BookID     uint       `gorm:"not null;uniqueIndex:uniq_open_rental,where:returned_at IS NULL" json:"book_id"`
	UserID     uint       `gorm:"not null;uniqueIndex:uniq_open_rental,where:returned_at IS NULL" json:"user_id"`
	CreatedAt  time.Time  `json:"created_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}
