// Package config loads patientdesk settings from a YAML file with
// PATIENTDESK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mrsinham/patientdesk/internal/demohost/edgecases"
)

// EnvPrefix prefixes every environment override, e.g. PATIENTDESK_HOST_URL.
const EnvPrefix = "PATIENTDESK"

// FileName is the config file looked up when no path is given.
const FileName = "patientdesk.yaml"

// Config is the complete application configuration.
type Config struct {
	Host  HostConfig  `mapstructure:"host"`
	UI    UIConfig    `mapstructure:"ui"`
	Log   LogConfig   `mapstructure:"log"`
	DICOM DICOMConfig `mapstructure:"dicom"`
	Demo  DemoConfig  `mapstructure:"demo"`
}

// HostConfig locates the patient-records host.
type HostConfig struct {
	URL string `mapstructure:"url"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Theme              string        `mapstructure:"theme"`
	ToastDuration      time.Duration `mapstructure:"toast_duration"`
	StatusRefreshDelay time.Duration `mapstructure:"status_refresh_delay"`
}

// LogConfig controls logging. An empty File discards TUI logs.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DICOMConfig maps form fields to the DICOM tag that fills them on import.
type DICOMConfig struct {
	Fields map[string]string `mapstructure:"fields"`
}

// DemoConfig configures the built-in demo host.
type DemoConfig struct {
	Addr          string `mapstructure:"addr"`
	PublicHost    string `mapstructure:"public_host"`
	Patients      int    `mapstructure:"patients"`
	Seed          uint64 `mapstructure:"seed"`
	ReportFailure string `mapstructure:"report_failure"`
	// EdgeCases is the percentage of seeded records given an edge case.
	EdgeCases     int    `mapstructure:"edge_cases"`
	EdgeCaseTypes string `mapstructure:"edge_case_types"`
}

// EdgeCaseConfig parses the edge case settings.
func (d DemoConfig) EdgeCaseConfig() (edgecases.Config, error) {
	types, err := edgecases.ParseTypes(d.EdgeCaseTypes)
	if err != nil {
		return edgecases.Config{}, fmt.Errorf("demo.edge_case_types: %w", err)
	}
	c := edgecases.Config{Percentage: d.EdgeCases, Types: types}
	if err := c.Validate(); err != nil {
		return edgecases.Config{}, fmt.Errorf("demo.edge_cases: %w", err)
	}
	return c, nil
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Host: HostConfig{URL: "http://127.0.0.1:8765"},
		UI: UIConfig{
			Theme:              "light",
			ToastDuration:      3 * time.Second,
			StatusRefreshDelay: time.Second,
		},
		Log:   LogConfig{Level: "info"},
		DICOM: DICOMConfig{Fields: map[string]string{}},
		Demo: DemoConfig{
			Addr:          "127.0.0.1:8765",
			PublicHost:    "reports.example.com",
			Patients:      12,
			EdgeCaseTypes: "special-chars,long-names,missing-fields,extreme-ages,varied-ids",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("host.url", d.Host.URL)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("ui.toast_duration", d.UI.ToastDuration)
	v.SetDefault("ui.status_refresh_delay", d.UI.StatusRefreshDelay)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("dicom.fields", d.DICOM.Fields)
	v.SetDefault("demo.addr", d.Demo.Addr)
	v.SetDefault("demo.public_host", d.Demo.PublicHost)
	v.SetDefault("demo.patients", d.Demo.Patients)
	v.SetDefault("demo.seed", d.Demo.Seed)
	v.SetDefault("demo.report_failure", d.Demo.ReportFailure)
	v.SetDefault("demo.edge_cases", d.Demo.EdgeCases)
	v.SetDefault("demo.edge_case_types", d.Demo.EdgeCaseTypes)
}

// Load reads the config at path. With an empty path it looks for
// patientdesk.yaml in the working directory and then in the user config
// directory; finding none is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "patientdesk"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.DICOM.Fields == nil {
		cfg.DICOM.Fields = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	if c.Host.URL == "" {
		return fmt.Errorf("host.url is required")
	}
	if c.UI.Theme != "light" && c.UI.Theme != "dark" {
		return fmt.Errorf("ui.theme must be light or dark, got %q", c.UI.Theme)
	}
	if c.UI.ToastDuration < 0 {
		return fmt.Errorf("ui.toast_duration must not be negative")
	}
	if c.UI.StatusRefreshDelay < 0 {
		return fmt.Errorf("ui.status_refresh_delay must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Demo.Patients < 0 {
		return fmt.Errorf("demo.patients must not be negative")
	}
	if _, err := c.Demo.EdgeCaseConfig(); err != nil {
		return err
	}
	return nil
}

// fileConfig is the on-disk layout written by Save. Durations are kept as
// strings so the file stays readable.
type fileConfig struct {
	Host struct {
		URL string `yaml:"url"`
	} `yaml:"host"`
	UI struct {
		Theme              string `yaml:"theme"`
		ToastDuration      string `yaml:"toast_duration"`
		StatusRefreshDelay string `yaml:"status_refresh_delay"`
	} `yaml:"ui"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	DICOM struct {
		Fields map[string]string `yaml:"fields"`
	} `yaml:"dicom"`
	Demo struct {
		Addr          string `yaml:"addr"`
		PublicHost    string `yaml:"public_host"`
		Patients      int    `yaml:"patients"`
		Seed          uint64 `yaml:"seed"`
		ReportFailure string `yaml:"report_failure"`
		EdgeCases     int    `yaml:"edge_cases"`
		EdgeCaseTypes string `yaml:"edge_case_types"`
	} `yaml:"demo"`
}

// Save writes c to path as YAML, creating parent directories.
func Save(c Config, path string) error {
	var f fileConfig
	f.Host.URL = c.Host.URL
	f.UI.Theme = c.UI.Theme
	f.UI.ToastDuration = c.UI.ToastDuration.String()
	f.UI.StatusRefreshDelay = c.UI.StatusRefreshDelay.String()
	f.Log.File = c.Log.File
	f.Log.Level = c.Log.Level
	f.DICOM.Fields = c.DICOM.Fields
	if f.DICOM.Fields == nil {
		f.DICOM.Fields = map[string]string{}
	}
	f.Demo.Addr = c.Demo.Addr
	f.Demo.PublicHost = c.Demo.PublicHost
	f.Demo.Patients = c.Demo.Patients
	f.Demo.Seed = c.Demo.Seed
	f.Demo.ReportFailure = c.Demo.ReportFailure
	f.Demo.EdgeCases = c.Demo.EdgeCases
	f.Demo.EdgeCaseTypes = c.Demo.EdgeCaseTypes

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
