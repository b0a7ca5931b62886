package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Catalog drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Events  EventsConfig      `yaml:"events"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return c.Events.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig selects where the four collections come from and where they
// are held while serving.
//
// Dir is a directory of books.yaml, articles.yaml, drugs.yaml and topics.yaml.
// When empty, the sample catalog compiled into the binary is served and Watch
// has no effect.
type CatalogConfig struct {
	Driver     string `yaml:"driver"`
	Dir        string `yaml:"dir"`
	SQLitePath string `yaml:"sqlite_path"`
	Watch      bool   `yaml:"watch"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverMemory, DriverSQLite)),
	); err != nil {
		return err
	}
	if c.Driver == DriverSQLite && c.SQLitePath == "" {
		return fmt.Errorf("catalog: driver is %q but sqlite_path is empty", DriverSQLite)
	}
	return nil
}

// Embedded reports whether the built-in sample catalog is served.
func (c *CatalogConfig) Embedded() bool {
	return c.Dir == ""
}

// EventsConfig holds server-sent events configuration.
type EventsConfig struct {
	Throttle time.Duration `yaml:"throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Throttle, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Catalog: CatalogConfig{
			Driver:     DriverMemory,
			SQLitePath: "./synapse.db",
		},
		Events: EventsConfig{
			Throttle: 2 * time.Second,
		},
	}
}
