package milsims

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when a listing does not exist
	ErrNotFound = errors.New("Milsim not found.")

	// ErrNoInvite is returned when a listing has no invite to refresh from
	ErrNoInvite = errors.New("Milsim has no invite_url.")

	// ErrCooldown is returned when a listing was checked too recently
	ErrCooldown = errors.New("Please wait a bit before refreshing again.")

	// ErrAlreadyListed is returned when a Discord server has been submitted before
	ErrAlreadyListed = errors.New("This Discord server has already been submitted.")

	// ErrMissingInvite is returned for submissions without an invite link
	ErrMissingInvite = errors.New("Please provide a permanent Discord invite link.")
)
