package discord

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const cdnBase = "https://cdn.discordapp.com/"

// ErrInvalidInvite is returned when an invite URL does not match a known pattern
var ErrInvalidInvite = errors.New("Invalid Discord invite link")

var invitePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)discord\.gg/([a-z0-9-]+)`),
	regexp.MustCompile(`(?i)discord(?:app)?\.com/invite/([a-z0-9-]+)`),
	regexp.MustCompile(`(?i)^([a-z0-9-]+)$`),
}

// ExtractInviteCode returns the invite code of a discord.gg link, a
// discord.com/invite link, or a bare code
func ExtractInviteCode(inviteURL string) (string, error) {
	inviteURL = strings.TrimSpace(inviteURL)

	for _, pattern := range invitePatterns {
		match := pattern.FindStringSubmatch(inviteURL)
		if len(match) > 1 {
			return match[1], nil
		}
	}

	return "", ErrInvalidInvite
}

// InviteURL returns the canonical discord.gg link of an invite code
func InviteURL(code string) string {
	return "https://discord.gg/" + code
}

// IconURL builds the CDN URL of a guild icon, animated icons are served as GIF
func IconURL(guildID, iconHash string, size int) string {
	if guildID == "" || iconHash == "" {
		return ""
	}

	ext := "png"
	if strings.HasPrefix(iconHash, "a_") {
		ext = "gif"
	}

	return cdnBase + "icons/" + guildID + "/" + iconHash + "." + ext + "?size=" + strconv.Itoa(size)
}
