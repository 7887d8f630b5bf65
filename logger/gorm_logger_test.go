package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	t.Cleanup(InitNop)

	g := NewGormLogger(100 * time.Millisecond)
	sql := func() (string, int64) { return "SELECT * FROM albums", 1 }
	ctx := context.Background()

	g.Trace(ctx, time.Now(), sql, nil)
	g.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	g.Trace(ctx, time.Now(), sql, errors.New("deadlock"))
	g.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "[GORM] 慢查询", entries[1].Message)
	assert.Equal(t, "[GORM] 查询出错", entries[2].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
}
