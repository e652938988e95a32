package milsims

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/metrics"
	"github.com/bf2-milsims/census/pkg/discord"
	"github.com/bf2-milsims/census/pkg/iconcolor"
	"github.com/bf2-milsims/census/pkg/slug"
)

const (
	maxLabels      = 10
	maxLabelLength = 40
	maxNameLength  = 100
	maxNotesLength = 2000
	maxSlugTries   = 50
)

// SubmissionStore is the storage Submissions write new listings to
type SubmissionStore interface {
	FindByDiscordServerID(ctx context.Context, guildID string) (*Milsim, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, milsim *Milsim) error
}

// Submission is a listing request as entered by a visitor
type Submission struct {
	InviteURL   string
	Name        string
	SubmittedBy string
	Notes       string
	Platforms   []string
	Factions    []string
	Tags        []string
}

// Submissions turns submissions into pending listings
type Submissions struct {
	logger  *zap.Logger
	store   SubmissionStore
	invites InviteResolver
	colors  ColorExtractor
	now     func() time.Time
}

func NewSubmissions(
	logger *zap.Logger,
	store SubmissionStore,
	invites InviteResolver,
	colors ColorExtractor,
) *Submissions {
	return &Submissions{
		logger:  logger,
		store:   store,
		invites: invites,
		colors:  colors,
		now:     time.Now,
	}
}

// Submit validates the invite against Discord and stores a pending listing
func (s *Submissions) Submit(ctx context.Context, sub Submission) (*Milsim, error) {
	inviteURL := strings.TrimSpace(sub.InviteURL)
	if inviteURL == "" {
		return nil, ErrMissingInvite
	}

	invite, err := s.invites.Resolve(ctx, inviteURL)
	if err != nil {
		return nil, err
	}

	_, err = s.store.FindByDiscordServerID(ctx, invite.GuildID)
	if err == nil {
		return nil, ErrAlreadyListed
	}
	if err != ErrNotFound {
		return nil, errors.Wrap(err, "cannot check for existing milsim")
	}

	name := truncate(strings.TrimSpace(sub.Name), maxNameLength)
	if name == "" {
		name = invite.GuildName
	}

	milsimSlug, err := s.uniqueSlug(ctx, name, invite.InviteCode)
	if err != nil {
		return nil, err
	}

	createdAt, err := discord.SnowflakeTime(invite.GuildID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode server creation date")
	}

	checkedAt := s.now().UTC()
	milsim := &Milsim{
		ID:                uuid.New(),
		Name:              name,
		Slug:              milsimSlug,
		InviteURL:         discord.InviteURL(invite.InviteCode),
		DiscordServerID:   invite.GuildID,
		DiscordInviteCode: invite.InviteCode,
		DiscordIconURL:    invite.IconURL,
		ThemeColor:        s.themeColor(ctx, invite.IconURL),
		ServerCreatedAt:   &createdAt,
		MembersCount:      invite.Members,
		OnlineCount:       invite.Online,
		LastCheckedAt:     &checkedAt,
		LineageNotes:      truncate(strings.TrimSpace(sub.Notes), maxNotesLength),
		Status:            StatusPending,
		SubmittedBy:       truncate(strings.TrimSpace(sub.SubmittedBy), maxNameLength),
		ActivityStatus:    ActivityUnknown,
		Platforms:         normalizeLabels(sub.Platforms),
		Factions:          normalizeLabels(sub.Factions),
		Tags:              normalizeLabels(sub.Tags),
	}

	err = s.store.Create(ctx, milsim)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store submission")
	}

	metrics.Submissions.Add(1)

	s.logger.Info("received submission",
		zap.String("milsim_id", milsim.ID.String()),
		zap.String("guild_id", milsim.DiscordServerID),
		zap.String("name", milsim.Name),
	)

	return milsim, nil
}

func (s *Submissions) uniqueSlug(ctx context.Context, name, inviteCode string) (string, error) {
	base := slug.Milsim(name)
	if base == "" {
		base = slug.Milsim(inviteCode)
	}

	candidate := base
	for i := 2; i <= maxSlugTries+1; i++ {
		taken, err := s.store.SlugTaken(ctx, candidate)
		if err != nil {
			return "", errors.Wrap(err, "cannot check slug")
		}
		if !taken {
			return candidate, nil
		}

		candidate = base + "_" + strconv.Itoa(i)
	}

	return "", errors.Errorf("no free slug for %q", base)
}

func (s *Submissions) themeColor(ctx context.Context, iconURL string) string {
	if iconURL == "" || s.colors == nil {
		return iconcolor.Fallback
	}

	color, err := s.colors.ThemeColor(ctx, iconURL)
	if err != nil {
		return iconcolor.Fallback
	}

	return color
}

// normalizeLabels trims, deduplicates and bounds user supplied labels
func normalizeLabels(labels []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(labels))

	for _, label := range labels {
		label = truncate(strings.TrimSpace(label), maxLabelLength)
		if label == "" || seen[label] {
			continue
		}

		seen[label] = true
		result = append(result, label)

		if len(result) >= maxLabels {
			break
		}
	}

	return result
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
