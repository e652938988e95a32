package discord

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

const iconSize = 128

// ErrUnknownInvite is returned when Discord does not know the invite code
var ErrUnknownInvite = errors.New("Unknown Discord invite. Has it expired?")

// ErrIncompleteGuild is returned when the invite does not carry guild data
var ErrIncompleteGuild = errors.New("Discord returned incomplete guild data.")

// LookupError is returned for non-2xx responses of the invite endpoint
type LookupError struct {
	StatusCode int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("Invite lookup failed (HTTP %d). Is the invite valid/public?", e.StatusCode)
}

// Invite is the guild information behind an invite
type Invite struct {
	InviteCode string
	GuildID    string
	GuildName  string
	IconHash   string
	IconURL    string
	Members    *int
	Online     *int
}

type inviteLookup func(code string) (*discordgo.Invite, error)

// Resolver resolves invite links through the Discord REST API
type Resolver struct {
	lookup inviteLookup
}

// NewResolver creates a Resolver, token is optional as the invite endpoint is public.
// Lookups are sent exactly once, failed requests are never retried.
func NewResolver(client *http.Client, token string) (*Resolver, error) {
	if token != "" {
		token = "Bot " + token
	}

	// validate once so lookups can not fail on session setup
	if _, err := newSession(token, nil); err != nil {
		return nil, err
	}

	var base http.RoundTripper
	var timeout time.Duration
	if client != nil {
		base = client.Transport
		timeout = client.Timeout
	}
	if base == nil {
		base = http.DefaultTransport
	}

	return &Resolver{
		lookup: func(code string) (*discordgo.Invite, error) {
			transport := &statusTransport{base: base}

			session, err := newSession(token, &http.Client{Transport: transport, Timeout: timeout})
			if err != nil {
				return nil, err
			}

			invite, err := session.InviteWithCounts(code)
			if err == nil {
				return invite, nil
			}

			// discordgo only reports some statuses as plain errors
			if _, ok := err.(*discordgo.RESTError); !ok && transport.status >= http.StatusMultipleChoices {
				return nil, &LookupError{StatusCode: transport.status}
			}

			return nil, err
		},
	}, nil
}

func newSession(token string, client *http.Client) (*discordgo.Session, error) {
	session, err := discordgo.New(token)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create Discord Session")
	}

	session.MaxRestRetries = 0
	session.ShouldRetryOnRateLimit = false
	if client != nil {
		session.Client = client
	}

	return session, nil
}

// statusTransport remembers the status of the last response it carried
type statusTransport struct {
	base   http.RoundTripper
	status int
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if resp != nil {
		t.status = resp.StatusCode
	}
	return resp, err
}

// Resolve looks up the invite behind inviteURL, including approximate counts
func (r *Resolver) Resolve(ctx context.Context, inviteURL string) (*Invite, error) {
	code, err := ExtractInviteCode(inviteURL)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	invite, err := r.lookup(code)
	if err != nil {
		return nil, lookupError(err)
	}

	return inviteFromDiscord(code, invite)
}

func lookupError(err error) error {
	if _, ok := err.(*LookupError); ok {
		return err
	}

	errD, ok := err.(*discordgo.RESTError)
	if !ok || errD == nil {
		return errors.Wrap(err, "cannot get Invite from the Discord API")
	}

	if errD.Message != nil && errD.Message.Code == discordgo.ErrCodeUnknownInvite {
		return ErrUnknownInvite
	}

	if errD.Response != nil {
		return &LookupError{StatusCode: errD.Response.StatusCode}
	}

	return errors.Wrap(err, "cannot get Invite from the Discord API")
}

func inviteFromDiscord(code string, invite *discordgo.Invite) (*Invite, error) {
	if invite == nil || invite.Guild == nil ||
		invite.Guild.ID == "" || invite.Guild.Name == "" {
		return nil, ErrIncompleteGuild
	}

	result := &Invite{
		InviteCode: code,
		GuildID:    invite.Guild.ID,
		GuildName:  invite.Guild.Name,
		IconHash:   invite.Guild.Icon,
		IconURL:    IconURL(invite.Guild.ID, invite.Guild.Icon, iconSize),
	}

	// Discord reports zero when counts were not computed
	if invite.ApproximateMemberCount > 0 {
		members := invite.ApproximateMemberCount
		result.Members = &members
	}
	if invite.ApproximatePresenceCount > 0 {
		online := invite.ApproximatePresenceCount
		result.Online = &online
	}

	return result, nil
}
