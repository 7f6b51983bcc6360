package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/painel/internal/core/styles"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if c.Endpoint != "" {
		if err := validEndpoint(c.Endpoint); err != nil {
			errs = errs.Append("endpoint", err)
		}
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"sync.poll_interval", c.Sync.PollInterval},
		{"sync.quiet_period", c.Sync.QuietPeriod},
		{"sync.saved_display", c.Sync.SavedDisplay},
		{"sync.echo_guard", c.Sync.EchoGuard},
		{"sync.endpoint_flash", c.Sync.EndpointFlash},
		{"sync.request_timeout", c.Sync.RequestTimeout},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = errs.Append(d.field, fmt.Errorf("must not be negative, got %s", d.value))
		}
	}

	if c.Database.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1"))
	}
	if c.Database.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("must not be negative"))
	}
	if c.Database.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("must not be negative"))
	}

	if !strings.HasPrefix(c.Serve.Path, "/") {
		errs = errs.Append("serve.path", fmt.Errorf("must start with /, got %q", c.Serve.Path))
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		errs = errs.Append("tui.theme", fmt.Errorf("unknown theme %q (available: %s)", c.TUI.Theme, strings.Join(styles.ThemeNames(), ", ")))
	}

	return errs.ToError()
}

// ValidateDeep runs Validate and then checks the filesystem: the config file
// and the data directory. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
