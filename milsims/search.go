package milsims

import (
	"context"
	"strings"

	"github.com/lib/pq"
)

// Sort is the ordering of the directory
type Sort string

const (
	SortSizeDesc Sort = "size_desc"
	SortSizeAsc  Sort = "size_asc"
	// SortAgeDesc lists the oldest servers first
	SortAgeDesc Sort = "age_desc"
	// SortAgeAsc lists the newest servers first
	SortAgeAsc Sort = "age_asc"

	DefaultSort = SortAgeDesc
)

// ParseSort returns the Sort for v, falling back to DefaultSort
func ParseSort(v string) Sort {
	switch Sort(v) {
	case SortSizeDesc, SortSizeAsc, SortAgeDesc, SortAgeAsc:
		return Sort(v)
	}
	return DefaultSort
}

func (s Sort) orderBy() []string {
	switch s {
	case SortSizeDesc:
		return []string{"members_count DESC NULLS LAST", "name ASC"}
	case SortSizeAsc:
		return []string{"members_count ASC NULLS LAST", "name ASC"}
	case SortAgeAsc:
		return []string{"server_created_at DESC NULLS LAST", "name ASC"}
	default:
		return []string{"server_created_at ASC NULLS LAST", "name ASC"}
	}
}

// SearchOptions filter the directory, a listing has to carry all selected labels
type SearchOptions struct {
	Query     string
	Platforms []string
	Factions  []string
	Tags      []string
	Activity  Activity
	Sort      Sort
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns the publicly listed milsims matching opts
func (r *Repo) Search(ctx context.Context, opts SearchOptions) ([]Milsim, error) {
	query := r.db.Model(&Milsim{}).Where("status IN (?)", listedStatuses())

	if q := strings.TrimSpace(opts.Query); q != "" {
		query = query.Where("name ILIKE ?", "%"+likeEscaper.Replace(q)+"%")
	}
	if len(opts.Platforms) > 0 {
		query = query.Where("platforms @> ?::varchar[]", pq.StringArray(opts.Platforms))
	}
	if len(opts.Factions) > 0 {
		query = query.Where("factions @> ?::varchar[]", pq.StringArray(opts.Factions))
	}
	if len(opts.Tags) > 0 {
		query = query.Where("tags @> ?::varchar[]", pq.StringArray(opts.Tags))
	}
	if opts.Activity != "" {
		query = query.Where("activity_status = ?", opts.Activity)
	}

	for _, order := range opts.Sort.orderBy() {
		query = query.Order(order)
	}

	var result []Milsim
	err := query.Find(&result).Error
	return result, err
}

// OldestServers ranks listed milsims by their Discord creation date,
// listings without one are not ranked
func (r *Repo) OldestServers(ctx context.Context, limit int) ([]Milsim, error) {
	var result []Milsim
	err := r.db.
		Where("status IN (?)", listedStatuses()).
		Where("server_created_at IS NOT NULL").
		Order("server_created_at ASC").
		Order("name ASC").
		Limit(limit).
		Find(&result).
		Error
	return result, err
}

// LargestServers ranks listed milsims by member count
func (r *Repo) LargestServers(ctx context.Context, limit int) ([]Milsim, error) {
	var result []Milsim
	err := r.db.
		Where("status IN (?)", listedStatuses()).
		Where("members_count IS NOT NULL").
		Order("members_count DESC").
		Order("name ASC").
		Limit(limit).
		Find(&result).
		Error
	return result, err
}

func (r *Repo) Platforms(ctx context.Context) ([]Platform, error) {
	var result []Platform
	err := r.db.Order("sort_order ASC").Order("name ASC").Find(&result).Error
	return result, err
}

// Facets collects the filter options: all platforms and the factions and tags in use
func (r *Repo) Facets(ctx context.Context) (*Facets, error) {
	platforms, err := r.Platforms(ctx)
	if err != nil {
		return nil, err
	}

	facets := &Facets{}
	for _, platform := range platforms {
		facets.Platforms = append(facets.Platforms, platform.Name)
	}

	facets.Factions, err = r.labels(ctx, "factions")
	if err != nil {
		return nil, err
	}

	facets.Tags, err = r.labels(ctx, "tags")
	if err != nil {
		return nil, err
	}

	return facets, nil
}

// column is never user input
func (r *Repo) labels(ctx context.Context, column string) ([]string, error) {
	// nolint: gosec
	rows, err := r.db.DB().QueryContext(ctx, `
SELECT DISTINCT unnest(`+column+`) AS label
FROM milsims
WHERE status IN ($1, $2)
ORDER BY label
`, StatusVerified, StatusPrivate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}
