package di

import (
	"os"
	"path/filepath"
	"time"

	"brc-agent/internal/adapter/control"
	"brc-agent/internal/application/port/output"
	"brc-agent/internal/infrastructure/browser/rod"
	"brc-agent/internal/infrastructure/logger"
	"brc-agent/internal/infrastructure/scheduler"
	"brc-agent/internal/infrastructure/serverapi"
)

type Config struct {
	SettingsFile string
	APIPrefix    string
	HTTPTimeout  time.Duration
	PollInterval time.Duration
	ControlAddr  string
	Browser      rod.BrowserConfig
	Log          logger.Config
}

// LoadConfig reads the process configuration. The agent's own settings
// (server URL, API key, label) are not here: they live in SettingsFile and
// are re-read every cycle.
func LoadConfig(env output.ConfigPort) Config {
	browser := rod.DefaultConfig()
	browser.ControlURL = env.Get("BRC_BROWSER_URL")
	browser.Headless = env.GetBool("BRC_HEADLESS", browser.Headless)
	browser.NoSandbox = env.GetBool("BRC_NO_SANDBOX", browser.NoSandbox)
	browser.StartURL = env.GetWithDefault("BRC_START_URL", browser.StartURL)
	browser.Timeout = env.GetDuration("BRC_COMMAND_TIMEOUT", browser.Timeout)

	log := logger.DefaultConfig()
	log.Level = env.GetWithDefault("BRC_LOG_LEVEL", log.Level)
	log.File = env.Get("BRC_LOG_FILE")

	return Config{
		SettingsFile: env.GetWithDefault("BRC_SETTINGS_FILE", defaultSettingsFile()),
		APIPrefix:    env.GetWithDefault("BRC_API_PREFIX", serverapi.DefaultAPIPrefix),
		HTTPTimeout:  env.GetDuration("BRC_HTTP_TIMEOUT", serverapi.DefaultTimeout),
		PollInterval: env.GetDuration("BRC_POLL_INTERVAL", scheduler.DefaultInterval),
		ControlAddr:  env.GetWithDefault("BRC_CONTROL_ADDR", control.DefaultAddr),
		Browser:      browser,
		Log:          log,
	}
}

func defaultSettingsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "brc-settings.yaml"
	}
	return filepath.Join(dir, "brc-agent", "settings.yaml")
}
