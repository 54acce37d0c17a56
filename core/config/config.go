package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dropbox-comments/core/database"
	"dropbox-comments/core/logger"
	"dropbox-comments/core/reconcile"
	"dropbox-comments/core/server"
	"dropbox-comments/core/state"
	"dropbox-comments/core/storage"
	"dropbox-comments/feature/comments"
	"dropbox-comments/feature/ledger"
	"dropbox-comments/feature/scheduler"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when a required setting is missing or invalid.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Gmail holds settings for the notification mailbox.
	Gmail comments.Config `mapstructure:"gmail"`
	// Sheet holds settings for the spreadsheet ledger.
	Sheet ledger.Config `mapstructure:"sheet"`
	// Match holds fuzzy matching settings.
	Match reconcile.Config `mapstructure:"match"`
	// Poll holds polling settings.
	Poll scheduler.Config `mapstructure:"poll"`
	// State holds the local state file location.
	State state.Config `mapstructure:"state"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Server holds configuration for the monitor HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the state mirror bucket.
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the audit database.
	Database database.Config `mapstructure:"database"`
}

// LoadConfig loads configuration from environment variables and an optional .env file.
// An empty envPath means ".env" in the working directory.
func LoadConfig(envPath string) (*Config, error) {
	if envPath == "" {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. GMAIL_USER_EMAIL -> gmail.user_email)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// Validate checks the settings every command needs before touching a collaborator.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Gmail.UserEmail) == "" {
		problems = append(problems, "gmail.user_email is required")
	}
	if strings.TrimSpace(c.Sheet.ID) == "" {
		problems = append(problems, "sheet.id is required")
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		problems = append(problems, fmt.Sprintf("match.threshold must be within [0,1], got %v", c.Match.Threshold))
	}
	if !scheduler.IsAllowedInterval(c.Poll.IntervalMinutes) {
		problems = append(problems, fmt.Sprintf("poll.interval_minutes must be one of %v, got %d", scheduler.AllowedIntervals, c.Poll.IntervalMinutes))
	}
	if c.Poll.IntervalSeconds <= 0 {
		problems = append(problems, "poll.interval_seconds must be positive")
	}
	if c.Sheet.TitleColumn < 0 || c.Sheet.CommentsColumn < 0 || c.Sheet.LastUpdateColumn < 0 {
		problems = append(problems, "sheet column indexes must not be negative")
	}
	if c.Database.Enabled && !c.Database.IsValidDriver() {
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
