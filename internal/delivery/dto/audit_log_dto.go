package dto

import (
	"time"

	"medical-center/internal/domain/entity"
)

// Request DTOs

type AuditLogQuery struct {
	Action  string `json:"action" validate:"omitempty,max=100"`
	ActorID int64  `json:"actor_id" validate:"omitempty,gt=0"`
	Limit   int    `json:"limit" validate:"omitempty,gte=1,lte=500"`
}

// Response DTOs

type AuditLogResponse struct {
	ID        int64       `json:"id"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Action    string      `json:"action"`
	Metadata  entity.JSON `json:"metadata"`
	CreatedAt time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
