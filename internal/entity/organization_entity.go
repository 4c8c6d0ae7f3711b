package entity

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	Id        uuid.UUID
	Name      string
	Address   *string
	Phone     *string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
