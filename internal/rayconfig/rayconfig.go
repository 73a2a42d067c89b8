// Package rayconfig loads interpreter settings for the ray command.
package rayconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/brownplt/BlockLang-sub000/ray"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Settings are the user adjustable interpreter settings.  The zero value of
// a field means the interpreter default.
type Settings struct {
	FunctionCallLimit int      `yaml:"function_call_limit"`
	MaxStackHeight    int      `yaml:"max_stack_height"`
	LogLevel          string   `yaml:"log_level"`
	Preload           []string `yaml:"preload"`
	StackDump         bool     `yaml:"stack_dump"`
}

// Default returns the settings used when no settings file is given.
func Default() *Settings {
	return &Settings{
		FunctionCallLimit: ray.DefaultFunctionCallLimit,
		MaxStackHeight:    ray.DefaultMaxStackHeight,
		LogLevel:          "warn",
	}
}

// Load reads settings from the YAML file at path.  Fields missing from the
// file keep their default values.
func Load(path string) (*Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML settings from r.  Unknown fields are an error.
func Parse(r io.Reader) (*Settings, error) {
	s := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(s)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	err = s.Validate()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.FunctionCallLimit < 0 {
		return fmt.Errorf("function_call_limit must not be negative: %d", s.FunctionCallLimit)
	}
	if s.MaxStackHeight < 0 {
		return fmt.Errorf("max_stack_height must not be negative: %d", s.MaxStackHeight)
	}
	_, err := s.Level()
	return err
}

// Level returns the logging level named by LogLevel.
func (s *Settings) Level() (zapcore.Level, error) {
	if s.LogLevel == "" {
		return zapcore.WarnLevel, nil
	}
	var lvl zapcore.Level
	err := lvl.UnmarshalText([]byte(s.LogLevel))
	if err != nil {
		return lvl, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// Logger builds a console logger writing to stderr at the configured level.
func (s *Settings) Logger() (*zap.Logger, error) {
	lvl, err := s.Level()
	if err != nil {
		return nil, err
	}
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to construct logger: %w", err)
	}
	return logger, nil
}

// Options returns the interpreter configuration described by s.
func (s *Settings) Options() []ray.Config {
	var config []ray.Config
	if s.FunctionCallLimit > 0 {
		config = append(config, ray.WithFunctionCallLimit(s.FunctionCallLimit))
	}
	if s.MaxStackHeight > 0 {
		config = append(config, ray.WithMaximumStackHeight(s.MaxStackHeight))
	}
	if s.StackDump {
		config = append(config, ray.WithStackDump(true))
	}
	return config
}
