package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// NewConfig returns a new instance of Config with defaults.
func NewConfig() Config {
	return Config{
		Format: "auto",
		Level:  "warn",
	}
}

// ParseLevel parses Level; empty means warn.
func (c Config) ParseLevel() (zapcore.Level, error) {
	if c.Level == "" {
		return zapcore.WarnLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
