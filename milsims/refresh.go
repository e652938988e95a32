package milsims

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bf2-milsims/census/metrics"
	"github.com/bf2-milsims/census/pkg/discord"
	"github.com/bf2-milsims/census/pkg/iconcolor"
)

// Cooldown is the minimum time between two checks of the same listing
const Cooldown = 30 * time.Second

// RefreshStore is the storage a Refresher works on
type RefreshStore interface {
	Find(ctx context.Context, id uuid.UUID) (*Milsim, error)
	RefreshCandidates(ctx context.Context, cutoff time.Time, limit int) ([]Milsim, error)
	ApplyDiscord(ctx context.Context, id uuid.UUID, update *DiscordUpdate) error
}

type InviteResolver interface {
	Resolve(ctx context.Context, inviteURL string) (*discord.Invite, error)
}

type ColorExtractor interface {
	ThemeColor(ctx context.Context, iconURL string) (string, error)
}

// Refresher pulls live Discord data into listings
type Refresher struct {
	logger  *zap.Logger
	store   RefreshStore
	invites InviteResolver
	colors  ColorExtractor
	locker  Locker
	now     func() time.Time
}

func NewRefresher(
	logger *zap.Logger,
	store RefreshStore,
	invites InviteResolver,
	colors ColorExtractor,
	locker Locker,
) *Refresher {
	return &Refresher{
		logger:  logger,
		store:   store,
		invites: invites,
		colors:  colors,
		locker:  locker,
		now:     time.Now,
	}
}

func checkCooldown(lastChecked *time.Time, now time.Time) error {
	if lastChecked == nil {
		return nil
	}

	if now.Sub(*lastChecked) < Cooldown {
		return ErrCooldown
	}

	return nil
}

// Refresh updates a single listing from its Discord invite
func (r *Refresher) Refresh(ctx context.Context, id uuid.UUID) error {
	milsim, err := r.store.Find(ctx, id)
	if err != nil {
		return errors.Wrap(err, "cannot read milsim")
	}
	if milsim.InviteURL == "" {
		return ErrNoInvite
	}

	err = checkCooldown(milsim.LastCheckedAt, r.now())
	if err != nil {
		return err
	}

	invite, err := r.invites.Resolve(ctx, milsim.InviteURL)
	if err != nil {
		return err
	}

	createdAt, err := discord.SnowflakeTime(invite.GuildID)
	if err != nil {
		return errors.Wrap(err, "cannot decode server creation date")
	}

	err = r.store.ApplyDiscord(ctx, id, &DiscordUpdate{
		Name:              invite.GuildName,
		DiscordServerID:   invite.GuildID,
		DiscordInviteCode: invite.InviteCode,
		DiscordIconURL:    invite.IconURL,
		ServerCreatedAt:   createdAt,
		MembersCount:      invite.Members,
		OnlineCount:       invite.Online,
		LastCheckedAt:     r.now().UTC(),
		ThemeColor:        r.themeColor(ctx, invite.IconURL),
	})
	if err != nil {
		return errors.Wrap(err, "cannot update milsim")
	}

	metrics.Refreshed.Add(1)

	return nil
}

func (r *Refresher) themeColor(ctx context.Context, iconURL string) string {
	if iconURL == "" || r.colors == nil {
		return iconcolor.Fallback
	}

	color, err := r.colors.ThemeColor(ctx, iconURL)
	if err != nil {
		r.logger.Debug("cannot compute theme color, using fallback",
			zap.String("icon_url", iconURL),
			zap.Error(err),
		)
		return iconcolor.Fallback
	}

	return color
}
