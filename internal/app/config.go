package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string         `yaml:"pipeline" validate:"required"`
	RegistryPath string         `yaml:"registry"`
	Only         string         `yaml:"only"`
	Inputs       map[string]any `yaml:"inputs"`

	LogFormat       string `yaml:"log_format" validate:"oneof=text json"`
	LogLevel        string `yaml:"log_level" validate:"oneof=debug info warn error"`
	HealthcheckPort int    `yaml:"healthcheck_port" validate:"gte=0,lte=65535"`

	// ReducedSizeClasses are loaded with the reduced strategy. Nil means
	// the resource package default.
	ReducedSizeClasses []string `yaml:"reduced_size_classes"`

	Exports Exports `yaml:"exports"`
	// Summary prints a metric table after the run.
	Summary bool `yaml:"summary"`
}

// Exports configures where finished runs are sent. Empty fields are off.
type Exports struct {
	Markdown string          `yaml:"markdown"`
	SQLite   string          `yaml:"sqlite"`
	SocketIO *SocketIOExport `yaml:"socketio"`
}

// SocketIOExport configures the socket.io publisher.
type SocketIOExport struct {
	URL                string `yaml:"url" validate:"required,url"`
	Namespace          string `yaml:"namespace"`
	Event              string `yaml:"event"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// NewConfig applies defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, formatValidationError(err)
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML app config. Unknown fields are rejected.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	for _, e := range validationErrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s is a required configuration field and cannot be empty", e.Namespace())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", e.Namespace(), e.Param(), e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s=%s)", e.Namespace(), e.Tag(), e.Param())
		}
	}
	return err
}
