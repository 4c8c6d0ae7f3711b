package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserProfileResponse never carries the password hash.
type UserProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Company   *string   `json:"company"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	FullName string  `json:"fullName" validate:"omitempty,max=255"`
	Username string  `json:"username" validate:"required,min=3,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6,max=72"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
}

// UpdateUserRequest applies only the fields present in the payload.
type UpdateUserRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=255"`
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Company  *string `json:"company" validate:"omitempty,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
}
