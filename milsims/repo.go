package milsims

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

const (
	candidatesQuery = `
SELECT id, invite_url, last_checked_at
FROM milsims
WHERE status IN ($1, $2)
AND (last_checked_at IS NULL OR last_checked_at < $3)
ORDER BY last_checked_at ASC NULLS FIRST
LIMIT $4
;
`

	applyDiscordQuery = `
UPDATE milsims
SET name = $2,
  discord_server_id = $3,
  discord_invite_code = $4,
  discord_icon_url = $5,
  server_created_at = $6,
  members_count = $7,
  online_count = $8,
  last_checked_at = $9,
  theme_color = $10,
  updated_at = NOW()
WHERE id = $1
;
`
)

// Repo is the Postgres backed store of listings
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Find(ctx context.Context, id uuid.UUID) (*Milsim, error) {
	var milsim Milsim

	err := r.db.Where("id = ?", id).First(&milsim).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &milsim, nil
}

// FindListedBySlug returns a publicly listed milsim by its slug
func (r *Repo) FindListedBySlug(ctx context.Context, slug string) (*Milsim, error) {
	var milsim Milsim

	err := r.db.
		Where("slug = ?", slug).
		Where("status IN (?)", listedStatuses()).
		First(&milsim).
		Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &milsim, nil
}

func (r *Repo) FindByDiscordServerID(ctx context.Context, guildID string) (*Milsim, error) {
	var milsim Milsim

	err := r.db.Where("discord_server_id = ?", guildID).First(&milsim).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &milsim, nil
}

func (r *Repo) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int
	err := r.db.Model(&Milsim{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *Repo) Create(ctx context.Context, milsim *Milsim) error {
	if milsim == nil {
		return errors.New("milsim cannot be nil")
	}
	if milsim.ID == uuid.Nil {
		milsim.ID = uuid.New()
	}

	return r.db.Create(milsim).Error
}

// RefreshCandidates returns listed milsims not checked since cutoff, never checked ones first
func (r *Repo) RefreshCandidates(ctx context.Context, cutoff time.Time, limit int) ([]Milsim, error) {
	rows, err := r.db.DB().QueryContext(
		ctx, candidatesQuery,
		StatusVerified, StatusPrivate, cutoff, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Milsim
	for rows.Next() {
		var entry Milsim

		err = rows.Scan(
			&entry.ID,
			&entry.InviteURL,
			&entry.LastCheckedAt,
		)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// ApplyDiscord writes refreshed Discord data, moderation fields are left untouched
func (r *Repo) ApplyDiscord(ctx context.Context, id uuid.UUID, update *DiscordUpdate) error {
	if id == uuid.Nil {
		return errors.New("submitted invalid milsim id")
	}
	if update == nil {
		return errors.New("update cannot be nil")
	}

	result, err := r.db.DB().ExecContext(
		ctx, applyDiscordQuery,
		id,
		update.Name,
		update.DiscordServerID,
		update.DiscordInviteCode,
		update.DiscordIconURL,
		update.ServerCreatedAt,
		nullInt(update.MembersCount),
		nullInt(update.OnlineCount),
		update.LastCheckedAt,
		update.ThemeColor,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
