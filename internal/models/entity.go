package models

import (
	"time"

	"github.com/yukikurage/progress-bot/internal/constants"
)

type EntityKind string

const (
	KindProject EntityKind = "project"
	KindTask    EntityKind = "task"
)

type EntityStatus string

const (
	StatusActive    EntityStatus = "active"
	StatusCompleted EntityStatus = "completed"
)

// Entity is a project or a task. Kind is the discriminant; ProjectID is only meaningful for tasks
// and is a weak reference resolved by scanning the project pool.
type Entity struct {
	ID           string       `gorm:"primarykey;type:varchar(64)" json:"id" bson:"id"`
	Kind         EntityKind   `gorm:"type:varchar(20);not null;index" json:"kind" bson:"kind"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name" bson:"name"`
	OwnerID      string       `gorm:"type:varchar(64);not null;index" json:"owner_id" bson:"owner_id"`
	Deadline     *time.Time   `json:"deadline" bson:"deadline,omitempty"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	Status       EntityStatus `gorm:"type:varchar(20);not null" json:"status" bson:"status"`
	TotalUnits   int          `gorm:"not null" json:"total_units" bson:"total_units"`
	CurrentUnits int          `gorm:"not null" json:"current_units" bson:"current_units"`
	IsPublic     bool         `gorm:"not null" json:"is_public" bson:"is_public"`
	ProjectID    *string      `gorm:"type:varchar(64);index" json:"project_id,omitempty" bson:"project_id,omitempty"`

	// Position preserves insertion order in relational stores.
	Position int `gorm:"not null" json:"-" bson:"-"`
}

func (e *Entity) IsCompleted() bool {
	return e.Status == StatusCompleted
}

// Scale is the basis progress is measured against: the fixed total, or the virtual scale
// when the entity has none.
func (e *Entity) Scale() int {
	if e.TotalUnits > 0 {
		return e.TotalUnits
	}
	return constants.VirtualScale
}

// HasParent reports whether a task carries a project back-reference.
func (e *Entity) HasParent() bool {
	return e.Kind == KindTask && e.ProjectID != nil && *e.ProjectID != ""
}
