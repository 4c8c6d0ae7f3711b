package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	FullName     string
	Username     string
	Email        string
	PasswordHash string
	Company      *string
	Phone        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type AuthToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
