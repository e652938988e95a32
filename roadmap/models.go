package roadmap

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Category string

const (
	CategoryDirectory      Category = "directory"
	CategoryDiscordSync    Category = "discord_sync"
	CategoryModeration     Category = "moderation"
	CategoryUIUX           Category = "ui_ux"
	CategoryAPI            Category = "api"
	CategorySEO            Category = "seo"
	CategoryInfrastructure Category = "infrastructure"
	CategoryOther          Category = "other"
)

// Item is an entry of the public roadmap
type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Title       string    `gorm:"not null"`
	Description string
	Status      Status   `gorm:"type:varchar(16);not null;default:'planned'"`
	Priority    Priority `gorm:"type:varchar(16);not null;default:'medium'"`
	Category    Category `gorm:"type:varchar(32);not null;default:'other'"`
	SortOrder   int
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (*Item) TableName() string {
	return "roadmap_items"
}
