package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xzzpig/postboard/internal/core/logger"
)

func configLog() *zap.Logger {
	return logger.Named("core.config")
}

// Watch re-reads the config file on change and hands the new log settings to onChange.
// Only [log] is hot-reloadable; everything else needs a restart.
func Watch(onChange func(level string, levels LogLevels)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		levels, err := readLogLevels(e.Name)
		if err != nil {
			configLog().Warn("ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}
		level := viper.GetString("log.level")
		configLog().Info("config file changed", zap.String("file", e.Name), zap.String("log_level", level))
		onChange(level, levels)
	})
	viper.WatchConfig()
}
