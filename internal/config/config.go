package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"feedsink/internal/sink"
)

type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Sink     SinkConfig     `yaml:"sink"`
	Schedule ScheduleConfig `yaml:"schedule"`
	LogLevel string         `yaml:"log_level"`
}

type SourceConfig struct {
	URL       string        `yaml:"url"`
	Charset   string        `yaml:"charset"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	Retry     RetryConfig   `yaml:"retry"`
	Tags      TagsConfig    `yaml:"tags"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// TagsConfig overrides the element each item field is read from.
type TagsConfig struct {
	Title       string `yaml:"title"`
	Link        string `yaml:"link"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	GUID        string `yaml:"guid"`
	Publish     string `yaml:"publish"`
}

type SinkConfig struct {
	Type        string `yaml:"type"`
	Address     string `yaml:"address"`
	Name        string `yaml:"name"`
	DatePattern string `yaml:"date_pattern"`
	Exchange    string `yaml:"exchange"`
	Queue       string `yaml:"queue"`
	BindingKey  string `yaml:"binding_key"`
}

// Kind maps the configured type onto a sink kind.
func (s SinkConfig) Kind() sink.Kind {
	return sink.ParseKind(s.Type)
}

// Dispatch returns the dispatcher view of the sink section.
func (s SinkConfig) Dispatch() sink.Config {
	return sink.Config{
		Kind:        s.Kind(),
		Name:        s.Name,
		DatePattern: s.DatePattern,
		Address:     s.Address,
		Exchange:    s.Exchange,
		Queue:       s.Queue,
		BindingKey:  s.BindingKey,
	}
}

type ScheduleConfig struct {
	// Interval of zero runs once and exits.
	Interval   time.Duration `yaml:"interval"`
	RunTimeout time.Duration `yaml:"run_timeout"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML (or JSON) document after expanding ${VAR} references.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Source.Charset == "" {
		c.Source.Charset = "utf-8"
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = "feedsink/1.0"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if c.Source.Retry.MaxAttempts == 0 {
		c.Source.Retry.MaxAttempts = 3
	}
	if c.Source.Retry.InitialBackoff == 0 {
		c.Source.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Source.Retry.MaxBackoff == 0 {
		c.Source.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Sink.Kind() == sink.KindQueue && c.Sink.Exchange == "" {
		c.Sink.Exchange = "feedsink"
	}
	if c.Schedule.RunTimeout == 0 {
		c.Schedule.RunTimeout = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) validate() error {
	var errs []error

	if strings.TrimSpace(c.Source.URL) == "" {
		errs = append(errs, errors.New("source.url is required"))
	}

	switch c.Sink.Kind() {
	case sink.KindConsole:
	case sink.KindFile:
		if c.Sink.Name == "" {
			errs = append(errs, errors.New("sink.name is required for the file sink"))
		}
	default:
		if c.Sink.Name == "" {
			errs = append(errs, fmt.Errorf("sink.name is required for the %s sink", c.Sink.Kind()))
		}
		if c.Sink.Address == "" {
			errs = append(errs, fmt.Errorf("sink.address is required for the %s sink", c.Sink.Kind()))
		}
	}

	if c.Schedule.Interval < 0 {
		errs = append(errs, errors.New("schedule.interval must not be negative"))
	}

	return errors.Join(errs...)
}
