package discord

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// SnowflakeTime decodes the creation time embedded in a Discord ID
func SnowflakeTime(id string) (time.Time, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return time.Time{}, errors.New("empty snowflake")
	}

	created, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid snowflake %q", id)
	}

	return created.UTC(), nil
}
