// Package config holds validator settings shared by the CLI and the
// language server.
package config

import (
	"errors"
	"slices"
	"strings"

	"github.com/ampproject/amphtml-sub099/internal/log"
)

// RuleKeyframes names the keyframes rule-set.
const RuleKeyframes = "keyframes"

// Config configures which rule-sets run and how URL attributes are checked.
type Config struct {
	// Rules lists the rule-sets applied to keyframes stylesheets. Syntax
	// errors are always reported.
	Rules []string `yaml:"rules" json:"rules"`

	// AllowedProtocols lists the URL schemes accepted in URL attributes.
	AllowedProtocols []string `yaml:"allowedProtocols" json:"allowedProtocols"`

	// URLAttributes lists the HTML attributes holding a single URL.
	URLAttributes []string `yaml:"urlAttributes" json:"urlAttributes"`

	// AllowRelativeURLs accepts URLs without a scheme.
	AllowRelativeURLs bool `yaml:"allowRelativeURLs" json:"allowRelativeURLs"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel" json:"logLevel"`

	// Workers bounds concurrent validation; 0 means one per CPU.
	Workers int `yaml:"workers" json:"workers"`
}

// Default returns the configuration used when no config file is found.
func Default() Config {
	return Config{
		Rules: []string{RuleKeyframes},
		AllowedProtocols: []string{
			"data", "ftp", "geo", "http", "https", "mailto", "maps", "sip",
			"sms", "tel", "viber", "whatsapp",
		},
		URLAttributes:     []string{"action", "href", "poster", "src"},
		AllowRelativeURLs: true,
		LogLevel:          "info",
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Rules = slices.Clone(c.Rules)
	c.AllowedProtocols = slices.Clone(c.AllowedProtocols)
	c.URLAttributes = slices.Clone(c.URLAttributes)
	return c
}

// Normalize lower-cases protocol and attribute names.
func (c *Config) Normalize() {
	for i, p := range c.AllowedProtocols {
		c.AllowedProtocols[i] = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(p), ":"))
	}
	for i, a := range c.URLAttributes {
		c.URLAttributes[i] = strings.ToLower(strings.TrimSpace(a))
	}
	for i, r := range c.Rules {
		c.Rules[i] = strings.ToLower(strings.TrimSpace(r))
	}
}

// Level returns the parsed LogLevel.
func (c Config) Level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, NewInvalidValueError("logLevel", c.LogLevel, err.Error())
	}
	return lvl, nil
}

// Validate reports every unusable field.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, NewInvalidValueError("workers", c.Workers, "must not be negative"))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.AllowedProtocols {
		if p == "" || strings.ContainsAny(p, " /:") {
			errs = append(errs, NewInvalidValueError("allowedProtocols", p, "not a URL scheme"))
		}
	}
	for _, a := range c.URLAttributes {
		if a == "" {
			errs = append(errs, NewInvalidValueError("urlAttributes", a, "empty attribute name"))
		}
	}
	return errors.Join(errs...)
}
