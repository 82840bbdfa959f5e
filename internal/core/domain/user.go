package domain

import "time"

type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}

// Session is the server-side record behind a bearer token. It lives in the
// token store under the token digest, never under the raw token.
type Session struct {
	UserID   ID        `json:"user_id"`
	IssuedAt time.Time `json:"issued_at"`
}

func NewSession(userID ID) *Session {
	return &Session{
		UserID:   userID,
		IssuedAt: time.Now(),
	}
}
