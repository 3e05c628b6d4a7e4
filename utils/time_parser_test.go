package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationSupportsDays(t *testing.T) {
	d, err := ParseDuration("2d")
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)

	d, err = ParseDuration("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)
}

func TestParseHoursRoundsUp(t *testing.T) {
	hours, err := ParseHours("36h")
	require.NoError(t, err)
	assert.Equal(t, 36, hours)

	hours, err = ParseHours("90m")
	require.NoError(t, err)
	assert.Equal(t, 2, hours)

	hours, err = ParseHours("2d")
	require.NoError(t, err)
	assert.Equal(t, 48, hours)

	_, err = ParseHours("soon")
	assert.Error(t, err)
}
