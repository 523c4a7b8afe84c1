package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// JiraConfig holds the issue tracker connection settings.
type JiraConfig struct {
	// BaseURL is the root URL of the Jira instance.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// CredentialKey names the keyring entry holding the Jira token.
	CredentialKey string `mapstructure:"credential_key" yaml:"credential_key"`

	// SprintIssueLimit caps how many issues are read per sprint.
	SprintIssueLimit int `mapstructure:"sprint_issue_limit" yaml:"sprint_issue_limit"`

	// Projects restricts the issue keys reported on a pull request to
	// these project prefixes. Empty reports every key found.
	Projects []string `mapstructure:"projects" yaml:"projects"`
}

// GitHubConfig holds the code host connection settings.
type GitHubConfig struct {
	// APIURL is the REST API root (https://api.github.com for github.com).
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// CredentialKey names the keyring entry holding the GitHub token.
	CredentialKey string `mapstructure:"credential_key" yaml:"credential_key"`

	// SearchLimit is the top-N cutoff for pull request search.
	SearchLimit int `mapstructure:"search_limit" yaml:"search_limit"`

	// SearchQualifier is appended to every search (e.g. "org:acme").
	SearchQualifier string `mapstructure:"search_qualifier" yaml:"search_qualifier"`
}

// ServerConfig holds the HTTP action server settings.
type ServerConfig struct {
	Addr              string `mapstructure:"addr" yaml:"addr"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// DiagnosticsConfig controls the local diagnostics journal.
type DiagnosticsConfig struct {
	// DBPath is the SQLite file for the journal. Empty disables it.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// CredentialsConfig controls where tokens are kept.
type CredentialsConfig struct {
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	FileDir     string `mapstructure:"file_dir" yaml:"file_dir"`
}

// WatchConfig holds settings for the live PR watch view.
type WatchConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Env         string            `mapstructure:"env" yaml:"env"`
	Jira        JiraConfig        `mapstructure:"jira" yaml:"jira"`
	GitHub      GitHubConfig      `mapstructure:"github" yaml:"github"`
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics" yaml:"diagnostics"`
	Credentials CredentialsConfig `mapstructure:"credentials" yaml:"credentials"`
	Watch       WatchConfig       `mapstructure:"watch" yaml:"watch"`
}

// configDir returns ~/.config/workstatus, or the working directory when
// the home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "workstatus")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/workstatus/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		Env: "dev",
		Jira: JiraConfig{
			CredentialKey:    "jira-token",
			SprintIssueLimit: DefaultSprintIssueLimit,
		},
		GitHub: GitHubConfig{
			APIURL:        "https://api.github.com",
			CredentialKey: "github-token",
			SearchLimit:   DefaultSearchLimit,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequestTimeoutSec: 20,
		},
		Diagnostics: DiagnosticsConfig{
			DBPath: filepath.Join(dir, "diagnostics.db"),
		},
		Credentials: CredentialsConfig{
			ServiceName: "workstatus",
			FileDir:     filepath.Join(dir, "credentials"),
		},
		Watch: WatchConfig{
			IntervalSec: 60,
		},
	}
}

// setDefaults registers every default on v so missing keys and
// WORKSTATUS_* environment overrides resolve the same way.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("env", d.Env)
	v.SetDefault("jira.base_url", d.Jira.BaseURL)
	v.SetDefault("jira.credential_key", d.Jira.CredentialKey)
	v.SetDefault("jira.sprint_issue_limit", d.Jira.SprintIssueLimit)
	v.SetDefault("jira.projects", d.Jira.Projects)
	v.SetDefault("github.api_url", d.GitHub.APIURL)
	v.SetDefault("github.credential_key", d.GitHub.CredentialKey)
	v.SetDefault("github.search_limit", d.GitHub.SearchLimit)
	v.SetDefault("github.search_qualifier", d.GitHub.SearchQualifier)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.request_timeout_sec", d.Server.RequestTimeoutSec)
	v.SetDefault("diagnostics.db_path", d.Diagnostics.DBPath)
	v.SetDefault("credentials.service_name", d.Credentials.ServiceName)
	v.SetDefault("credentials.file_dir", d.Credentials.FileDir)
	v.SetDefault("watch.interval_sec", d.Watch.IntervalSec)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults and environment overrides
// (WORKSTATUS_JIRA_BASE_URL and friends) still apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("workstatus")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Jira.SprintIssueLimit < 1 {
		cfg.Jira.SprintIssueLimit = DefaultSprintIssueLimit
	}
	if cfg.GitHub.SearchLimit < 1 {
		cfg.GitHub.SearchLimit = DefaultSearchLimit
	}
	if cfg.Watch.IntervalSec < 1 {
		cfg.Watch.IntervalSec = 60
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("env", cfg.Env)
	v.Set("jira", cfg.Jira)
	v.Set("github", cfg.GitHub)
	v.Set("server", cfg.Server)
	v.Set("diagnostics", cfg.Diagnostics)
	v.Set("credentials", cfg.Credentials)
	v.Set("watch", cfg.Watch)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
