package roadmap

import (
	"context"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{
		db: db,
	}
}

func Migrate(db *gorm.DB) error {
	return errors.Wrap(
		db.AutoMigrate(Item{}).Error,
		"cannot migrate roadmap tables",
	)
}

// PublicItems returns the public roadmap, by sort order and newest first
func (r *Repo) PublicItems(ctx context.Context) ([]Item, error) {
	var items []Item
	err := r.db.
		Where("is_public = ?", true).
		Order("sort_order ASC").
		Order("created_at DESC").
		Find(&items).
		Error
	return items, err
}
