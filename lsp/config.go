package lsp

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/internal/validator"
)

// Config returns the effective configuration: the client's settings when
// it has sent any, else the workspace config.
func (s *Server) Config() config.Config {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	if s.clientCfg != nil {
		return s.clientCfg.Clone()
	}
	return s.workspaceCfg.Clone()
}

// ConfigSource names the file the workspace config was read from, or ""
// for the defaults.
func (s *Server) ConfigSource() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.configSource
}

// Options returns the validator options resolved from Config.
func (s *Server) Options() validator.Options {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.options
}

// LoadWorkspaceConfig discovers the config under the workspace root. On
// error the previous config stays in effect.
func (s *Server) LoadWorkspaceConfig() error {
	root := s.RootPath()
	if root == "" {
		log.Debug("No workspace root; using default config")
		return nil
	}

	cfg, source, err := config.Discover(root)
	if err != nil {
		return err
	}
	opts, err := validator.NewOptions(cfg)
	if err != nil {
		return fmt.Errorf("invalid config %s: %w", source, err)
	}

	s.configMu.Lock()
	s.workspaceCfg = cfg
	s.configSource = source
	if s.clientCfg == nil {
		s.options = opts
	}
	s.configMu.Unlock()

	if source == "" {
		log.Info("No config file in %s; using defaults", root)
	} else {
		log.Info("Loaded config from %s", source)
	}
	s.applyLogLevel()
	return nil
}

// SetClientConfig installs settings pushed by the client. A nil cfg drops
// them and falls back to the workspace config. Invalid settings are
// rejected and the current config kept.
func (s *Server) SetClientConfig(cfg *config.Config) error {
	var opts validator.Options
	if cfg != nil {
		var err error
		if opts, err = validator.NewOptions(*cfg); err != nil {
			return err
		}
		c := cfg.Clone()
		cfg = &c
	}

	s.configMu.Lock()
	s.clientCfg = cfg
	if cfg == nil {
		var err error
		if opts, err = validator.NewOptions(s.workspaceCfg); err != nil {
			opts = validator.DefaultOptions()
		}
	}
	s.options = opts
	s.configMu.Unlock()

	s.applyLogLevel()
	return nil
}

// IsConfigFile reports whether path is a file LoadWorkspaceConfig reads.
func (s *Server) IsConfigFile(path string) bool {
	root := s.RootPath()
	if root == "" {
		return false
	}
	clean := filepath.Clean(path)
	if filepath.Dir(clean) != filepath.Clean(root) {
		return false
	}
	name := filepath.Base(clean)
	return name == "package.json" || slices.Contains(config.FileNames, name)
}

func (s *Server) applyLogLevel() {
	level, err := s.Config().Level()
	if err != nil {
		log.Warn("Ignoring log level: %v", err)
		return
	}
	log.SetLevel(level)
}
