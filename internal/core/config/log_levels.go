package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// LogLevels represents hierarchical log level configuration.
// Keys are logger names (e.g., "core.db", "api.graphql") and values are log levels.
type LogLevels map[string]string

// LogLevelsDecodeHook returns a DecodeHookFunc that skips decoding for LogLevels.
// viper splits dotted keys into nested maps, so "api" = "info" next to
// "api.graphql" = "warn" cannot be decoded. Load fills LogLevels via readLogLevels instead.
func LogLevelsDecodeHook() mapstructure.DecodeHookFunc {
	return func(_ reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(LogLevels{}) {
			return data, nil
		}
		return make(LogLevels), nil
	}
}

// readLogLevels reads [log.levels] from a TOML file, keeping quoted dotted keys intact.
// For other formats, or when no file was used, it flattens what viper holds.
func readLogLevels(path string) (LogLevels, error) {
	if path == "" || !strings.EqualFold(filepath.Ext(path), ".toml") {
		levels := make(LogLevels)
		flattenLevels("", viper.Get("log.levels"), levels)
		return levels, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log levels: %w", err)
	}

	var doc struct {
		Log struct {
			Levels map[string]any `toml:"levels"`
		} `toml:"log"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse log levels: %w", err)
	}

	levels := make(LogLevels)
	flattenLevels("", doc.Log.Levels, levels)
	return levels, nil
}

func flattenLevels(prefix string, value any, out LogLevels) {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			name := k
			if prefix != "" {
				name = prefix + "." + k
			}
			flattenLevels(name, child, out)
		}
	case string:
		if prefix != "" {
			out[prefix] = v
		}
	}
}
