package dto

import (
	"time"

	"github.com/yukikurage/progress-bot/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ReceiveReports bool   `json:"receive_reports"`
	IsAdmin        bool   `json:"is_admin"`
}

// EntityDTO represents a project or a task in API responses
type EntityDTO struct {
	ID           string              `json:"id" yaml:"id"`
	Kind         models.EntityKind   `json:"kind" yaml:"kind"`
	Name         string              `json:"name" yaml:"name"`
	OwnerID      string              `json:"owner_id" yaml:"owner_id"`
	Status       models.EntityStatus `json:"status" yaml:"status"`
	Deadline     *time.Time          `json:"deadline" yaml:"deadline,omitempty"`
	CreatedAt    time.Time           `json:"created_at" yaml:"created_at"`
	CurrentUnits int                 `json:"current_units" yaml:"current_units"`
	TotalUnits   int                 `json:"total_units" yaml:"total_units"`
	IsPublic     bool                `json:"is_public" yaml:"is_public"`
	ProjectID    *string             `json:"project_id,omitempty" yaml:"project_id,omitempty"`
}

// EntityListResponse represents a paginated list of projects or tasks
type EntityListResponse struct {
	Items      []EntityDTO `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalCount int64       `json:"total_count"`
	TotalPages int         `json:"total_pages"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		ReceiveReports: user.ReceiveReports,
		IsAdmin:        user.IsAdmin,
	}
}

// ToEntityDTO converts an Entity model to EntityDTO
func ToEntityDTO(e models.Entity) EntityDTO {
	return EntityDTO{
		ID:           e.ID,
		Kind:         e.Kind,
		Name:         e.Name,
		OwnerID:      e.OwnerID,
		Status:       e.Status,
		Deadline:     e.Deadline,
		CreatedAt:    e.CreatedAt,
		CurrentUnits: e.CurrentUnits,
		TotalUnits:   e.TotalUnits,
		IsPublic:     e.IsPublic,
		ProjectID:    e.ProjectID,
	}
}

// ToEntityListResponse converts one page of entities to EntityListResponse
func ToEntityListResponse(entities []models.Entity, page, pageSize int, totalCount int64) EntityListResponse {
	items := make([]EntityDTO, len(entities))
	for i, e := range entities {
		items[i] = ToEntityDTO(e)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return EntityListResponse{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
