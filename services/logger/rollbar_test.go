package logsvc

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
)

func TestRollbarLogger_write(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Log.Level = "debug"
	buf := new(bytes.Buffer)
	logger := NewRollbarLogger(NewZerolog(buf, conf), conf)
	logger.Enable(false)

	logger.Error("returning book",
		errors.New("connection reset"),
		map[string]interface{}{"checkout_id": 4},
		core.Principal{ID: "admin", Email: "admin@school.test"},
		"extra",
	)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "returning book", entry["message"])
	assert.Equal(t, "connection reset", entry["error"])
	assert.Contains(t, entry["stack"], "rollbar_test.go")
	assert.Equal(t, float64(4), entry["checkout_id"])
	assert.Equal(t, "admin@school.test", entry["user"])
	assert.Equal(t, []interface{}{"extra"}, entry["args"])
	assert.Equal(t, "TEST", entry["env"])
}

func TestNewZerolog_level(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Log.Level = "warn"
	buf := new(bytes.Buffer)
	zl := NewZerolog(buf, conf)

	zl.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	zl.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	conf.Log.Level = "nonsense"
	assert.Equal(t, zerolog.InfoLevel, NewZerolog(buf, conf).GetLevel())
}
