package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", false)
	require.Error(t, err)
}

func TestNew_AcceptsConfiguredLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		l, err := New(level, false)
		require.NoError(t, err, level)
		assert.NotNil(t, l)
	}
}

func TestFromZap_WithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("run_id", "abc")

	l.Warn("order %d has %d divergent field(s)", 1001, 2)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "order 1001 has 2 divergent field(s)", entry.Message)
	assert.Equal(t, "abc", entry.ContextMap()["run_id"])
}
