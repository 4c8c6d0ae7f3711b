package model

import (
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Address   *string   `gorm:"type:text"`
	Phone     *string   `gorm:"type:varchar(50)"`
	Email     *string   `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}

