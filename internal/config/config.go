package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderGitlab = "gitlab"
	ProviderGithub = "github"
)

type Config struct {
	APIURL           string        `mapstructure:"api_url"`
	JobToken         string        `mapstructure:"job_token"`
	ProjectID        string        `mapstructure:"project_id"`
	Tag              string        `mapstructure:"tag"`
	NotesDir         string        `mapstructure:"notes_dir"`
	Provider         string        `mapstructure:"provider"`
	GithubToken      string        `mapstructure:"github_token"`
	GithubRepository string        `mapstructure:"github_repository"`
	GithubAPIURL     string        `mapstructure:"github_api_url"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	LogLevel         string        `mapstructure:"log_level"`
	Strict           bool          `mapstructure:"strict"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		NotesDir:       "releases",
		Provider:       ProviderGitlab,
		RequestTimeout: 60 * time.Second,
		LogLevel:       "info",
	}
}

// Validate rejects settings that can never work. The CI variables are not checked here:
// missing values surface later as a failed file read or a rejected request.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGitlab, ProviderGithub:
	default:
		return fmt.Errorf("unknown provider %q (expected %s or %s)", c.Provider, ProviderGitlab, ProviderGithub)
	}
	if c.NotesDir == "" {
		return fmt.Errorf("notes_dir cannot be empty")
	}
	// Check for path traversal in notes directory
	if strings.Contains(c.NotesDir, "..") {
		return fmt.Errorf("notes_dir contains invalid path traversal")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}
	return nil
}

// ValidateForPublish checks upfront that every setting the provider needs is present.
// Only used in strict mode.
func (c *Config) ValidateForPublish() error {
	if err := c.Validate(); err != nil {
		return err
	}
	var missing []string
	if c.Tag == "" {
		missing = append(missing, "tag (CI_COMMIT_TAG)")
	}
	switch c.Provider {
	case ProviderGitlab:
		if c.APIURL == "" {
			missing = append(missing, "api_url (CI_API_V4_URL)")
		}
		if c.JobToken == "" {
			missing = append(missing, "job_token (CI_JOB_TOKEN)")
		}
		if c.ProjectID == "" {
			missing = append(missing, "project_id (CI_PROJECT_ID)")
		}
	case ProviderGithub:
		if c.GithubToken == "" {
			missing = append(missing, "github_token (GITHUB_TOKEN)")
		}
		if c.GithubRepository == "" {
			missing = append(missing, "github_repository (GITHUB_REPOSITORY)")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}
	if c.Provider == ProviderGithub {
		owner, repo, err := c.GithubOwnerRepo()
		if err != nil {
			return err
		}
		if err := ValidateGitHubOwnerRepo(owner, repo); err != nil {
			return fmt.Errorf("invalid github configuration: %w", err)
		}
	}
	return nil
}

// GithubOwnerRepo splits github_repository (format: owner/repo).
func (c *Config) GithubOwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.GithubRepository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid github_repository %q: expected owner/repo", c.GithubRepository)
	}
	return owner, repo, nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	// Validate token format patterns
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// LoadConfig reads .release-publish.yaml from the working directory, if present,
// and overlays the CI environment on top of it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".release-publish")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	// Configure environment variables
	v.SetEnvPrefix("RELEASE_PUBLISH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv allows multiple env vars - it will check them in order
	bindings := map[string][]string{
		"api_url":           {"CI_API_V4_URL", "RELEASE_PUBLISH_API_URL"},
		"job_token":         {"CI_JOB_TOKEN", "RELEASE_PUBLISH_JOB_TOKEN"},
		"project_id":        {"CI_PROJECT_ID", "RELEASE_PUBLISH_PROJECT_ID"},
		"tag":               {"CI_COMMIT_TAG", "RELEASE_PUBLISH_TAG"},
		"notes_dir":         {"RELEASE_NOTES_DIR", "RELEASE_PUBLISH_NOTES_DIR"},
		"provider":          {"RELEASE_PROVIDER", "RELEASE_PUBLISH_PROVIDER"},
		"github_token":      {"GITHUB_TOKEN", "RELEASE_TOKEN", "RELEASE_PUBLISH_GITHUB_TOKEN"},
		"github_repository": {"GITHUB_REPOSITORY", "RELEASE_PUBLISH_GITHUB_REPOSITORY"},
		"github_api_url":    {"GITHUB_API_URL", "RELEASE_PUBLISH_GITHUB_API_URL"},
		"request_timeout":   {"RELEASE_REQUEST_TIMEOUT", "RELEASE_PUBLISH_REQUEST_TIMEOUT"},
		"log_level":         {"RELEASE_LOG_LEVEL", "RELEASE_PUBLISH_LOG_LEVEL"},
		"strict":            {"RELEASE_STRICT", "RELEASE_PUBLISH_STRICT"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind %s env: %w", key, err)
		}
	}
	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("notes_dir", defaults.NotesDir)
	v.SetDefault("provider", defaults.Provider)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("log_level", defaults.LogLevel)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
