package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/existflow/issuegantt/internal/db"
	"github.com/existflow/issuegantt/internal/github"
	"github.com/existflow/issuegantt/internal/keyword"
	"github.com/existflow/issuegantt/internal/schedule"
)

// Config holds the settings for one tracked repository
type Config struct {
	GitHub   GitHubConfig     `yaml:"github" json:"github"`
	Keywords keyword.Prefixes `yaml:"keywords" json:"keywords"` // Literal line prefixes
	Database DatabaseConfig   `yaml:"database" json:"database"`
	Server   ServerConfig     `yaml:"server" json:"server"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// GitHubConfig selects the repository and how it is read
type GitHubConfig struct {
	Token   string        `yaml:"token" json:"-"`
	Owner   string        `yaml:"owner" json:"owner"` // Organization or user
	Repo    string        `yaml:"repo" json:"repo"`
	APIURL  string        `yaml:"api_url" json:"api_url"`
	PerPage int           `yaml:"per_page" json:"per_page"`
	State   string        `yaml:"state" json:"state"` // open, closed or all
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// DatabaseConfig selects the local store
type DatabaseConfig struct {
	Driver string `yaml:"driver" json:"driver"` // sqlite or postgres
	DSN    string `yaml:"dsn" json:"dsn"`       // File path for sqlite
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr   string `yaml:"addr" json:"addr"`
	SortBy string `yaml:"sort_by" json:"sort_by"` // label or start_date
}

// DefaultKeywords are the line prefixes used when none are configured
var DefaultKeywords = keyword.Prefixes{
	StartDate: "#### 🗓 Start Date:",
	DueDate:   "#### 🗓 Expected Date:",
	Label:     "#### 💪 Team:",
	Progress:  "#### 📈 Progress (0-1):",
}

// Dir returns ~/.issuegantt
func Dir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return ".issuegantt"
	}
	return filepath.Join(home, ".issuegantt")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir := Dir()
	perPage, _ := strconv.Atoi(getEnv("ISSUEGANTT_PER_PAGE", "100"))

	return &Config{
		GitHub: GitHubConfig{
			Token:   getEnv("GITHUB_TOKEN", ""),
			Owner:   getEnv("ISSUEGANTT_OWNER", ""),
			Repo:    getEnv("ISSUEGANTT_REPO", ""),
			APIURL:  getEnv("ISSUEGANTT_API_URL", github.DefaultBaseURL),
			PerPage: perPage,
			State:   "all",
			Timeout: 30 * time.Second,
		},
		Keywords: DefaultKeywords,
		Database: DatabaseConfig{
			Driver: getEnv("ISSUEGANTT_DB_DRIVER", db.DriverSQLite),
			DSN:    getEnv("ISSUEGANTT_DB_DSN", filepath.Join(dir, "tasks.db")),
		},
		Server: ServerConfig{
			Addr:   getEnv("ISSUEGANTT_ADDR", ":8080"),
			SortBy: string(schedule.SortByLabel),
		},
		LogLevel:   getEnv("ISSUEGANTT_LOG_LEVEL", "INFO"),
		LogFile:    getEnv("ISSUEGANTT_LOG_FILE", filepath.Join(dir, "logs", "issuegantt.log")),
		LogConsole: getEnv("ISSUEGANTT_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load reads the config at path over the defaults. A missing file yields
// the defaults; "" means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// The environment wins over a token left in the file
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}

	return cfg, nil
}

// Save writes the config to path, "" meaning DefaultPath
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// May hold a token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the settings needed to talk to the repository
func (c *Config) Validate() error {
	var errs []error
	if c.GitHub.Owner == "" {
		errs = append(errs, errors.New("github.owner is required"))
	}
	if c.GitHub.Repo == "" {
		errs = append(errs, errors.New("github.repo is required"))
	}
	switch c.GitHub.State {
	case "", "open", "closed", "all":
	default:
		errs = append(errs, fmt.Errorf("github.state must be open, closed or all, got %q", c.GitHub.State))
	}
	switch c.Database.Driver {
	case "", db.DriverSQLite, db.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %s or %s, got %q", db.DriverSQLite, db.DriverPostgres, c.Database.Driver))
	}
	if _, err := schedule.ParseSortKey(c.Server.SortBy); err != nil {
		errs = append(errs, fmt.Errorf("server.sort_by: %w", err))
	}
	if c.Keywords.StartDate == "" && c.Keywords.DueDate == "" && c.Keywords.Label == "" && c.Keywords.Progress == "" {
		errs = append(errs, errors.New("keywords: at least one prefix is required"))
	}
	return errors.Join(errs...)
}

// GitHubOptions returns the client options for the configured repository
func (c *Config) GitHubOptions() github.Options {
	return github.Options{
		BaseURL: c.GitHub.APIURL,
		Token:   c.GitHub.Token,
		Owner:   c.GitHub.Owner,
		Repo:    c.GitHub.Repo,
		PerPage: c.GitHub.PerPage,
		State:   c.GitHub.State,
		Timeout: c.GitHub.Timeout,
	}
}
