package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	Name         string    `gorm:"size:255;not null"               json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"size:255;not null"               json:"-"`
	CreatedAt    time.Time `                                       json:"created_at"`
	UpdatedAt    time.Time `                                       json:"updated_at"`
}

// AccessToken is the server-side record of an issued bearer token. Only the
// SHA-256 of the token is kept; deleting the row revokes the token.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"      json:"id"`
	UserID     uint       `gorm:"index;not null"                json:"user_id"`
	Name       string     `gorm:"size:255;not null"             json:"name"`
	JTI        string     `gorm:"size:64;uniqueIndex;not null"  json:"jti"`
	TokenHash  string     `gorm:"size:64;uniqueIndex;not null"  json:"-"`
	LastUsedAt *time.Time `                                     json:"last_used_at"`
	ExpiresAt  *time.Time `                                     json:"expires_at"`
	CreatedAt  time.Time  `                                     json:"created_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"              json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null"         json:"name"`
	Description *string   `gorm:"type:text"                             json:"description"`
	Quantity    int64     `gorm:"not null;check:quantity >= 0"          json:"quantity"`
	Price       float64   `gorm:"type:decimal(12,2);not null;check:price >= 0" json:"price"`
	CreatedAt   time.Time `                                             json:"created_at"`
	UpdatedAt   time.Time `                                             json:"updated_at"`
}
