package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func Test_FromContextReturnsAttachedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := Wrap(zap.New(core)).With(String("run", "test"))

	ctx := log.GetContext(context.Background())
	FromContext(ctx).Info("records written", Int("count", 3))

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "records written", entries[0].Message)
	assert.Equal(t, map[string]any{"run": "test", "count": int64(3)}, entries[0].ContextMap())
}

func Test_FromContextFallsBackToGlobalLogger(t *testing.T) {
	assert.Same(t, New(), FromContext(context.Background()))
}

func Test_StringsTruncates(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Wrap(zap.New(core)).Debug("ids", Strings("ids", []string{"a", "b", "c"}, 2))

	assert.Equal(t, []any{"a", "b"}, logs.All()[0].ContextMap()["ids"])
}
