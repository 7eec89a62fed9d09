package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ badger.Logger = Badger{}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Out: &buf})

	log.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	log.Warn().Str("table", "COURSES").Msg("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "COURSES", entry["table"])
	assert.Equal(t, "kept", entry["message"])
}

func TestNew_DefaultsToInfo(t *testing.T) {
	for _, level := range []string{"", "nonsense"} {
		var buf bytes.Buffer
		log := New(Options{Level: level, Out: &buf})
		log.Debug().Msg("dropped")
		log.Info().Msg("kept")
		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	}
}

func TestBadger(t *testing.T) {
	var buf bytes.Buffer
	b := Badger{Log: New(Options{Level: "debug", Out: &buf})}

	b.Infof("replaying %d entries\n", 3)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "badger", entry["component"])
	assert.Equal(t, "replaying 3 entries", entry["message"])

	buf.Reset()
	b.Debugf("hidden")
	assert.Empty(t, buf.String())
}
