package dto

import (
	"time"

	"github.com/google/uuid"
)

type DashboardMetricsResponse struct {
	TotalUploads      int64          `json:"totalUploads"`
	SuccessfulUploads int64          `json:"successfulUploads"`
	FailedUploads     int64          `json:"failedUploads"`
	DataProcessed     int64          `json:"dataProcessed"`
	RecentUploads     []RecentUpload `json:"recentUploads"`
}

type RecentUpload struct {
	Id         uuid.UUID `json:"id"`
	FileName   string    `json:"fileName"`
	Status     int       `json:"status"`
	TotalRows  *int64    `json:"total_rows"`
	UploadedAt time.Time `json:"uploadedAt"`
	TimeAgo    string    `json:"timeAgo"`
}
