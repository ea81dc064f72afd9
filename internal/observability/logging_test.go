package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", "debug", &buf)

	logger.Info().Str("strategy", "activity").Msg("feed assembled")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "feed assembled", entry["message"])
	assert.Equal(t, "activity", entry["strategy"])
	assert.Equal(t, "konishi", entry["service"])
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", "chatty", &buf)

	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())
}

func TestRepoLogger_UsesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	repoLog := NewRepoLogger("posts")
	repoLog.LogRead(ctx, "list_by_ids", map[string]interface{}{"count": 2})
	repoLog.LogError(ctx, errors.New("boom"), "list_by_ids")

	out := buf.String()
	assert.Contains(t, out, `"table":"posts"`)
	assert.Contains(t, out, `"operation":"list_by_ids"`)
	assert.Contains(t, out, `"count":2`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestTraceID_EmptyWithoutSpan(t *testing.T) {
	assert.Equal(t, "", TraceID(context.Background()))
}
