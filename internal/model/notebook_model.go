package model

import (
	"time"

	"github.com/google/uuid"
)

// Notebook is the bookkeeping row for an uploaded/processed file run.
type Notebook struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileName  string    `gorm:"type:varchar(255);not null"`
	FileSize  *int64
	Status    int `gorm:"not null;default:0;index"`
	TotalRows *int64
	TaskId    *string   `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Notebook) TableName() string {
	return "notebooks"
}
