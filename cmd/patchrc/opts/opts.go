package opts

import (
	"context"
	"io"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	EnvFiles   []string
	Debug      bool

	// LogOutput receives structured logs
	LogOutput  io.Writer
	UserLogger *log.UserLogger

	config *config.Config
}

// LoadConfig loads the env files and the config file once
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	if o.config != nil {
		return o.config, nil
	}

	if err := config.LoadEnvFiles(o.EnvFiles...); err != nil {
		return nil, errors.Errorf("loading env files: %w", err)
	}

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	o.config = cfg
	return cfg, nil
}
