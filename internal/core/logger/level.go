package logger

import (
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap/zapcore"
)

// levelCache 按需缓存 logger 名称对应的级别
// 配置变更时整体替换，避免与并发读取的 Named logger 竞争
var levelCache atomic.Pointer[sync.Map]

// levelConfig 存储层级日志级别配置
var (
	levelConfigMu  sync.RWMutex
	levelConfigMap map[string]string // 配置的层级级别映射
	globalLevel    = zapcore.InfoLevel
)

func init() {
	levelCache.Store(&sync.Map{})
}

// InitLevelConfig 初始化（或热更新）层级日志级别配置
func InitLevelConfig(levels map[string]string, defaultLevel zapcore.Level) {
	copied := make(map[string]string, len(levels))
	for k, v := range levels {
		copied[k] = v
	}

	levelConfigMu.Lock()
	levelConfigMap = copied
	globalLevel = defaultLevel
	levelConfigMu.Unlock()

	levelCache.Store(&sync.Map{})
}

// GetLevelForName 根据日志名称查找最匹配的日志级别，匹配区分大小写
func GetLevelForName(name string) zapcore.Level {
	cache := levelCache.Load()
	if cached, ok := cache.Load(name); ok {
		return cached.(zapcore.Level)
	}

	level := computeLevelForName(name)
	cache.Store(name, level)
	return level
}

// computeLevelForName 依次尝试精确匹配、逐级父级匹配、全局级别
func computeLevelForName(name string) zapcore.Level {
	levelConfigMu.RLock()
	defer levelConfigMu.RUnlock()

	if len(levelConfigMap) == 0 || name == "" {
		return globalLevel
	}

	if levelStr, ok := levelConfigMap[name]; ok {
		if level, err := ParseLevel(levelStr); err == nil {
			return level
		}
	}

	// "api.graphql.errors" -> "api.graphql" -> "api"
	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i > 0; i-- {
		prefix := strings.Join(parts[:i], ".")
		if levelStr, ok := levelConfigMap[prefix]; ok {
			if level, err := ParseLevel(levelStr); err == nil {
				return level
			}
		}
	}

	return globalLevel
}

// ParseLevel 解析日志级别字符串（不区分大小写）
func ParseLevel(levelStr string) (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(strings.ToLower(levelStr)))
	return level, err
}
