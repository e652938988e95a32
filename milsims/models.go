package milsims

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status is the moderation status of a listing, only moderators change it
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
	StatusPrivate  Status = "private"
)

// Listed reports whether listings with this status are shown publicly
func (s Status) Listed() bool {
	return s == StatusVerified || s == StatusPrivate
}

func listedStatuses() []string {
	return []string{string(StatusVerified), string(StatusPrivate)}
}

// Activity is maintained outside of this service
type Activity string

const (
	ActivityActive   Activity = "active"
	ActivityInactive Activity = "inactive"
	ActivityUnknown  Activity = "unknown"
)

// ParseActivity returns the activity filter for v, empty means any
func ParseActivity(v string) Activity {
	switch Activity(v) {
	case ActivityActive, ActivityInactive, ActivityUnknown:
		return Activity(v)
	}
	return ""
}

// Milsim is a directory listing of a Discord server
type Milsim struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name string `gorm:"not null"`
	Slug string `gorm:"unique_index"`

	InviteURL         string `gorm:"not null"`
	DiscordServerID   string `gorm:"index"`
	DiscordInviteCode string
	DiscordIconURL    string
	ThemeColor        string

	ServerCreatedAt *time.Time
	MembersCount    *int
	OnlineCount     *int
	LastCheckedAt   *time.Time

	ClaimedFoundedAt *time.Time
	LineageNotes     string

	Status         Status `gorm:"type:varchar(16);not null;default:'pending';index"`
	SubmittedBy    string
	ModeratorNotes string

	ActivityStatus    Activity `gorm:"type:varchar(16);not null;default:'unknown'"`
	ActivityCheckedAt *time.Time

	Platforms pq.StringArray `gorm:"type:varchar[]"`
	Factions  pq.StringArray `gorm:"type:varchar[]"`
	Tags      pq.StringArray `gorm:"type:varchar[]"`
}

func (*Milsim) TableName() string {
	return "milsims"
}

// ShowInvite reports whether the invite link may be shown publicly
func (m *Milsim) ShowInvite() bool {
	return m.Status != StatusPrivate
}

// Platform is a selectable platform label
type Platform struct {
	ID        uint   `gorm:"primary_key"`
	Name      string `gorm:"unique_index;not null"`
	SortOrder int
}

func (*Platform) TableName() string {
	return "platforms"
}

// RefreshLock stores the last run of a globally rate limited job
type RefreshLock struct {
	Key       string `gorm:"primary_key"`
	LastRunAt time.Time
}

func (*RefreshLock) TableName() string {
	return "refresh_locks"
}

// DiscordUpdate holds the fields a refresh writes, moderation fields are never part of it
type DiscordUpdate struct {
	Name              string
	DiscordServerID   string
	DiscordInviteCode string
	DiscordIconURL    string
	ServerCreatedAt   time.Time
	MembersCount      *int
	OnlineCount       *int
	LastCheckedAt     time.Time
	ThemeColor        string
}

// Facets are the filter options of the directory
type Facets struct {
	Platforms []string
	Factions  []string
	Tags      []string
}
