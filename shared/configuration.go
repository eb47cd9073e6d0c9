package shared

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const CONFIG_PREFIX = "MINIGARDE"

type AppConfig struct {
	ApiProtocol string `split_words:"true" default:"http"`
	ApiHostname string `split_words:"true" default:"127.0.0.1:8090"`

	ListenAddr    string `split_words:"true" default:"0.0.0.0:8080"`
	TemplatesPath string `split_words:"true" default:"templates"`
	StaticPath    string `split_words:"true" default:"static"`

	SessionCookieName string `split_words:"true" default:"minigarde_session"`

	// Inactivity window before pending journal edits are flushed to the API.
	AutosaveDebounceMs int `split_words:"true" default:"2000"`

	// Edit buffers of sessions idle longer than this are dropped.
	EditSessionTtlMinutes int `split_words:"true" default:"720"`
}

func (c *AppConfig) AutosaveDebounce() time.Duration {
	return time.Duration(c.AutosaveDebounceMs) * time.Millisecond
}

func (c *AppConfig) EditSessionTtl() time.Duration {
	return time.Duration(c.EditSessionTtlMinutes) * time.Minute
}

func InitAppConfiguration() (config *AppConfig, err error) {
	config = &AppConfig{}

	if err := envconfig.Process(CONFIG_PREFIX, config); err != nil {
		return nil, fmt.Errorf("failed to parse env vars: %v", err)
	}

	return
}
