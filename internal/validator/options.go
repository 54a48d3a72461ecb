// Package validator runs the CSS rule-sets and URL checks over stylesheets
// and AMP HTML documents and collects what they report.
package validator

import (
	"github.com/ampproject/amphtml-sub099/internal/collections"
	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/css/keyframes"
	"github.com/ampproject/amphtml-sub099/internal/css/visitor"
)

// RuleSet is a named CSS check. New returns a visitor for a single
// stylesheet walk.
type RuleSet struct {
	Name string
	New  func() visitor.Visitor
}

var ruleSets = map[string]RuleSet{
	config.RuleKeyframes: {
		Name: config.RuleKeyframes,
		New:  func() visitor.Visitor { return keyframes.New() },
	},
}

// LookupRuleSet returns the rule-set registered under name.
func LookupRuleSet(name string) (RuleSet, bool) {
	rs, ok := ruleSets[name]
	return rs, ok
}

// RuleSetNames returns the registered rule-set names in order.
func RuleSetNames() []string {
	names := collections.NewSet[string]()
	for name := range ruleSets {
		names.Add(name)
	}
	return collections.Sorted(names)
}

// URLPolicy decides which attribute URLs are acceptable.
type URLPolicy struct {
	// AllowedProtocols holds lower-cased schemes without the colon.
	AllowedProtocols collections.Set[string]
	// AllowRelative accepts URLs without a scheme.
	AllowRelative bool
	// Attributes holds the lower-cased attribute names that carry a URL.
	Attributes collections.Set[string]
}

// Options are the resolved settings for a validation run.
type Options struct {
	// RuleSets run over <style amp-keyframes> blocks and .css inputs.
	RuleSets []RuleSet
	Policy   URLPolicy
	// Workers bounds ValidateMany; 0 means GOMAXPROCS.
	Workers int
}

// NewOptions resolves cfg. Rule-set names must be registered.
func NewOptions(cfg config.Config) (Options, error) {
	cfg = cfg.Clone()
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Options{}, err
	}

	opts := Options{
		Policy: URLPolicy{
			AllowedProtocols: collections.LowerSet(cfg.AllowedProtocols...),
			AllowRelative:    cfg.AllowRelativeURLs,
			Attributes:       collections.LowerSet(cfg.URLAttributes...),
		},
		Workers: cfg.Workers,
	}

	seen := collections.NewSet[string]()
	for _, name := range cfg.Rules {
		if seen.Has(name) {
			continue
		}
		seen.Add(name)
		rs, ok := ruleSets[name]
		if !ok {
			return Options{}, config.NewInvalidValueError("rules", name, "unknown rule-set")
		}
		opts.RuleSets = append(opts.RuleSets, rs)
	}
	return opts, nil
}

// DefaultOptions resolves config.Default.
func DefaultOptions() Options {
	opts, err := NewOptions(config.Default())
	if err != nil {
		panic("validator: default config does not resolve: " + err.Error())
	}
	return opts
}
