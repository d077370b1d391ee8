package logger

import (
	"go.uber.org/zap/zapcore"
)

// levelFilterCore 包装 zapcore.Core，按 logger 名称动态查找级别
type levelFilterCore struct {
	zapcore.Core
	name string
}

// Enabled 检查给定级别是否应该被记录
func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= GetLevelForName(c.name)
}

// With 保留过滤器，否则 logger.With(...) 会丢失名称对应的级别
func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), name: c.name}
}

// Check 必须覆盖：嵌入类型的 Check() 调用的是它自己的 Enabled()
func (c *levelFilterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

var (
	_ zapcore.Core         = (*levelFilterCore)(nil)
	_ zapcore.LevelEnabler = (*levelFilterCore)(nil)
)
