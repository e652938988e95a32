package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflakeTime(t *testing.T) {
	created, err := SnowflakeTime("175928847299117063")
	require.NoError(t, err)

	expected := time.Date(2016, time.April, 30, 11, 18, 25, 796*int(time.Millisecond), time.UTC)
	assert.True(t, expected.Equal(created), "got %s", created)
	assert.Equal(t, int64(1462015105796), created.UnixNano()/int64(time.Millisecond))
	assert.Equal(t, time.UTC, created.Location())
}

func TestSnowflakeTime_Epoch(t *testing.T) {
	created, err := SnowflakeTime("0")
	require.NoError(t, err)
	assert.Equal(t, int64(1420070400000), created.UnixNano()/int64(time.Millisecond))
}

func TestSnowflakeTime_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "12.5"} {
		_, err := SnowflakeTime(input)
		assert.Error(t, err, input)
	}
}
