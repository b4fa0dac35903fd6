package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jgoulah/simbev/internal/season"
	"github.com/jgoulah/simbev/pkg/models"
)

// Config holds the application configuration
type Config struct {
	Scenario    Scenario        `yaml:"scenario"`
	DataDir     string          `yaml:"data_dir,omitempty"`     // <data_dir>/<region>/<season>.csv
	ProfilePool string          `yaml:"profile_pool,omitempty"` // optional weekly trip pool CSV
	NumThreads  int             `yaml:"num_threads,omitempty" validate:"gte=0"`
	Regions     []models.Region `yaml:"regions" validate:"required,min=1,dive"`
	MQTT        MQTTConfig      `yaml:"mqtt,omitempty"`
}

// Scenario holds the simulation window and the parameters handed to the
// charging simulator
type Scenario struct {
	StartDate   string  `yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string  `yaml:"end_date" validate:"required,datetime=2006-01-02"`
	StepSize    int     `yaml:"step_size" validate:"gt=0,lte=1440"`
	Seed        int64   `yaml:"seed"`
	SocMin      float64 `yaml:"soc_min" validate:"gte=0,lte=1"`
	EtaCP       float64 `yaml:"eta_cp" validate:"gte=0,lte=1"`
	HomePrivate float64 `yaml:"home_private" validate:"gte=0,lte=1"`
	WorkPrivate float64 `yaml:"work_private" validate:"gte=0,lte=1"`
}

// MQTTConfig holds MQTT broker settings for publishing stored series
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker" validate:"required_if=Enabled true"` // host:port
	TopicPrefix string `yaml:"topic_prefix,omitempty"`
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks the struct tags and the scenario date order
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	start, err := c.Scenario.Start()
	if err != nil {
		return err
	}
	end, err := c.Scenario.End()
	if err != nil {
		return err
	}
	if start.After(end) {
		return fmt.Errorf("invalid config: start_date %s is after end_date %s", c.Scenario.StartDate, c.Scenario.EndDate)
	}
	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Start returns the parsed scenario start date
func (s Scenario) Start() (time.Time, error) {
	t, err := season.ParseDate(s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing start_date: %w", err)
	}
	return t, nil
}

// End returns the parsed scenario end date
func (s Scenario) End() (time.Time, error) {
	t, err := season.ParseDate(s.EndDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing end_date: %w", err)
	}
	return t, nil
}

// StepDividesDay reports whether buckets line up with midnight
func (s Scenario) StepDividesDay() bool {
	return s.StepSize > 0 && season.MinutesPerDay%s.StepSize == 0
}

// GetNumThreads returns the worker count, at least 1
func (c *Config) GetNumThreads() int {
	if c.NumThreads <= 0 {
		return 1
	}
	return c.NumThreads
}

// GetDataDir returns the probability table directory with a default of ./data
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return "data"
	}
	return c.DataDir
}

// GetTopicPrefix returns the MQTT topic prefix with a default of "simbev"
func (c *MQTTConfig) GetTopicPrefix() string {
	if c.TopicPrefix == "" {
		return "simbev"
	}
	return c.TopicPrefix
}
