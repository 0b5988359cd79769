package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-session-client/token"
	"github.com/stretchr/testify/require"
)

func TestParseExpiryUnit(t *testing.T) {
	for in, want := range map[string]token.ExpiryUnit{
		"":             token.UnitMilliseconds,
		"ms":           token.UnitMilliseconds,
		"milliseconds": token.UnitMilliseconds,
		"S":            token.UnitSeconds,
		"seconds":      token.UnitSeconds,
		"auto":         token.UnitAuto,
	} {
		got, err := token.ParseExpiryUnit(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := token.ParseExpiryUnit("minutes")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	const secs = int64(1_893_456_000)
	const millis = secs * 1000

	require.Equal(t, millis, token.Normalize(millis, token.UnitMilliseconds))
	require.Equal(t, millis, token.Normalize(secs, token.UnitSeconds))
	require.Equal(t, millis, token.Normalize(secs, token.UnitAuto))
	require.Equal(t, millis, token.Normalize(millis, token.UnitAuto))
}

func TestFromDuration(t *testing.T) {
	now := time.UnixMilli(1_000)
	require.Equal(t, int64(301_000), token.FromDuration(now, 5*time.Minute))
}
