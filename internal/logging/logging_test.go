package logging_test

import (
	"bytes"
	"testing"

	"github.com/jrsteele09/go-session-client/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestRedact(t *testing.T) {
	require.Equal(t, "", logging.Redact(""))
	require.Equal(t, "****", logging.Redact("abcd"))
	require.Equal(t, "eyJhbGci...", logging.Redact("eyJhbGciOiJIUzI1NiJ9.payload.sig"))
}

func TestSetup(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logging.Setup("warn", "PROD", &buf)
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	log.Info().Msg("hidden")
	log.Warn().Str("k", "v").Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"k":"v"`)

	logging.Setup("nonsense", "DEV", &buf)
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
