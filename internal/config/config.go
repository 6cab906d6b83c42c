package config

import (
	"errors"
	"strings"
	"sync"
	"time"

	"ipwarden/pkg/logger"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string        `yaml:"env" env:"APP_ENV" env-default:"production" env-description:"Environment [production, local, sandbox]"`
	Logger logger.Config `yaml:"logger"`
	Warden Warden        `yaml:"warden"`
	Debug  bool          `yaml:"debug" env:"APP_DEBUG" env-default:"false" env-description:"Enables debug mode"`
}

// Warden holds every knob of the sweep itself. The API url, token and the
// two file paths have no sane defaults and are validated before a run.
type Warden struct {
	APIURL                string `yaml:"api_url" env:"PANGOLIN_API_URL" env-description:"Base URL of the Pangolin API"`
	APIToken              string `yaml:"api_token" env:"PANGOLIN_API_TOKEN" env-description:"Bearer token for the Pangolin API"`
	ResourceID            string `yaml:"resource_id" env:"RESOURCE_ID" env-default:"1" env-description:"Pangolin resource holding the allow rules"`
	LogPath               string `yaml:"log_path" env:"LOG_PATH" env-description:"Path of the authentication log to tail"`
	StatePath             string `yaml:"state_path" env:"STATE_PATH" env-description:"Path of the persisted sweep state"`
	TTLMinutes            int    `yaml:"ttl_minutes" env:"RULE_TTL_MINUTES" env-default:"360" env-description:"Lifetime of a created rule in minutes"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" env:"REQUEST_TIMEOUT_SECONDS" env-default:"10" env-description:"Per-request timeout for API calls"`
	ExtractorProfile      string `yaml:"extractor_profile" env:"EXTRACTOR_PROFILE" env-description:"Optional TOML profile overriding the login-line marker and IP field"`
}

// Validate reports every missing required setting in one message, so a
// misconfigured scheduler job fails with the full list at once.
func (w Warden) Validate() error {
	var missing []string
	if w.APIURL == "" {
		missing = append(missing, "PANGOLIN_API_URL")
	}
	if w.APIToken == "" {
		missing = append(missing, "PANGOLIN_API_TOKEN")
	}
	if w.ResourceID == "" {
		missing = append(missing, "RESOURCE_ID")
	}
	if w.LogPath == "" {
		missing = append(missing, "LOG_PATH")
	}
	if w.StatePath == "" {
		missing = append(missing, "STATE_PATH")
	}
	if len(missing) > 0 {
		return errors.New("required: " + strings.Join(missing, ", "))
	}
	return nil
}

func (w Warden) TTL() time.Duration {
	return time.Duration(w.TTLMinutes) * time.Minute
}

func (w Warden) RequestTimeout() time.Duration {
	return time.Duration(w.RequestTimeoutSeconds) * time.Second
}

var (
	once   = sync.Once{}
	cfg    = &Config{}
	errCfg error
)

func New(configPath string, skipConfig bool) (*Config, error) {
	once.Do(func() {
		cfg = &Config{}

		if skipConfig {
			errCfg = cleanenv.ReadEnv(cfg)
			return
		}

		errCfg = cleanenv.ReadConfig(configPath, cfg)
	})

	return cfg, errCfg
}
