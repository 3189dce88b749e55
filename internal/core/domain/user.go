package domain

import (
	"strings"
	"time"
)

type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Password  string    `db:"password"` // bcrypt hashed
	CreatedAt time.Time `db:"created_at"`
}

func NewUser(username, email, hashedPassword string) *User {
	return &User{
		Username:  NormalizeUsername(username),
		Email:     NormalizeEmail(email),
		Password:  hashedPassword,
		CreatedAt: time.Now().UTC(),
	}
}

// NormalizeEmail case-folds an email so uniqueness checks ignore case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername case-folds a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
