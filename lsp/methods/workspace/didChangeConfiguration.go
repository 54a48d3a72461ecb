package workspace

import (
	"fmt"

	"github.com/ampproject/amphtml-sub099/internal/config"
	"github.com/ampproject/amphtml-sub099/internal/log"
	"github.com/ampproject/amphtml-sub099/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SettingsKeys are the settings sections read from didChangeConfiguration,
// in order of preference.
var SettingsKeys = []string{config.PackageJSONKey, "amp-validator"}

// DidChangeConfiguration handles the workspace/didChangeConfiguration notification
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	cfg, err := ParseSettings(params.Settings)
	if err != nil {
		// Keep the current configuration
		req.Warnf("ignoring client settings: %w", err)
		return nil
	}

	if err := req.Server.SetClientConfig(cfg); err != nil {
		req.Warnf("ignoring client settings: %w", err)
		return nil
	}

	if cfg == nil {
		log.Info("No client settings; using %s", describeSource(req.Server.ConfigSource()))
	} else {
		log.Debug("New configuration: %+v", *cfg)
	}

	RepublishAll(req)
	return nil
}

// RepublishAll pushes fresh diagnostics for every open document.
func RepublishAll(req *types.RequestContext) {
	glspCtx := req.Server.GLSPContext()
	if glspCtx == nil {
		return
	}
	for _, doc := range req.Server.AllDocuments() {
		if err := req.Server.PublishDiagnostics(glspCtx, doc.URI()); err != nil {
			req.Warnf("failed to publish diagnostics for %s: %w", doc.URI(), err)
		}
	}
}

// ParseSettings extracts our section from the client settings. A nil
// result means the client sent no section for us.
func ParseSettings(settings any) (*config.Config, error) {
	if settings == nil {
		return nil, nil
	}

	settingsMap, ok := settings.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("settings is %T, not an object", settings)
	}

	for _, key := range SettingsKeys {
		val, exists := settingsMap[key]
		if !exists {
			continue
		}
		section, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("settings.%s is %T, not an object", key, val)
		}
		cfg, err := config.FromMap(section)
		if err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return nil, nil
}

func describeSource(source string) string {
	if source == "" {
		return "defaults"
	}
	return source
}
