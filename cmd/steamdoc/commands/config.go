package commands

import (
	"errors"
	"os"
	"steamdoc/lib/configutil"
	"steamdoc/lib/restyutil"
	"steamdoc/lib/scrapers/steamworks"
	"time"
)

const defaultConfigName = "steamdoc.json5"

// Config is the shape of steamdoc.json5.
type Config struct {
	BaseUrl              string `json:"base_url"`
	TimeoutSeconds       int    `json:"timeout_seconds"`
	UserAgent            string `json:"user_agent"`
	CloudflareBypass     bool   `json:"cloudflare_bypass"`
	MarkdownDescriptions bool   `json:"markdown_descriptions"`
}

var defaultConfig = Config{
	BaseUrl:        steamworks.DefaultBaseUrl,
	TimeoutSeconds: 30,
	UserAgent:      "steamdoc",
}

// loadConfig reads the file given with --config, or searches upward for
// steamdoc.json5 when none was given. A missing file is only an error in
// the first case.
func loadConfig(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		cfg, err = configutil.ReadConfig[Config](path)
	} else {
		cfg, err = configutil.ReadRecursively[Config](defaultConfigName)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	}
	if err != nil {
		return Config{}, err
	}
	return configutil.WithDefaults(cfg, defaultConfig)
}

func (o *Options) newClient() (*steamworks.Client, error) {
	cfg, err := loadConfig(o.Config)
	if err != nil {
		return nil, err
	}
	if o.BaseUrl != "" {
		cfg.BaseUrl = o.BaseUrl
	}
	if o.Markdown {
		cfg.MarkdownDescriptions = true
	}

	clientOpts := steamworks.ClientOptions{
		BaseUrl:              cfg.BaseUrl,
		Timeout:              time.Duration(cfg.TimeoutSeconds) * time.Second,
		UserAgent:            cfg.UserAgent,
		CloudflareBypass:     cfg.CloudflareBypass,
		MarkdownDescriptions: cfg.MarkdownDescriptions,
	}
	if o.DumpHttp != "" {
		out, err := restyutil.NewFilesystemOutput(o.DumpHttp)
		if err != nil {
			return nil, err
		}
		clientOpts.Transcripts = out
	}
	return steamworks.NewClient(clientOpts)
}
