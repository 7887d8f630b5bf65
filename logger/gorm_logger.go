package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 把 GORM 的日志转发到全局 zap logger。
// 普通 SQL 记为 Debug，慢查询和出错的查询记为 Warn，ErrRecordNotFound 不算错误。
type GormLogger struct {
	slowThreshold time.Duration
}

// NewGormLogger 创建 GORM 日志适配器，slowThreshold 为 0 时不报告慢查询
func NewGormLogger(slowThreshold time.Duration) *GormLogger {
	return &GormLogger{slowThreshold: slowThreshold}
}

// LogMode 日志级别由全局 logger 控制
func (g *GormLogger) LogMode(_ gormlogger.LogLevel) gormlogger.Interface {
	return g
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	Debug("[GORM] " + fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	Warn("[GORM] " + fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	Error("[GORM] " + fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		Warn("[GORM] 查询出错",
			String("sql", sql),
			Int64("rows", rows),
			Duration("elapsed", elapsed),
			ErrorField(err))
	case g.slowThreshold > 0 && elapsed > g.slowThreshold:
		Warn("[GORM] 慢查询",
			String("sql", sql),
			Int64("rows", rows),
			Duration("elapsed", elapsed),
			Duration("threshold", g.slowThreshold))
	default:
		Debug("[GORM] sql",
			String("sql", sql),
			Int64("rows", rows),
			Duration("elapsed", elapsed))
	}
}
