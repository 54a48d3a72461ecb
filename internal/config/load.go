package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// FileNames are the config files Discover looks for, in order.
var FileNames = []string{".ampvalidator.yaml", ".ampvalidator.yml"}

// PackageJSONKey is the package.json field holding validator settings.
const PackageJSONKey = "ampValidator"

// Load reads an explicit config file. Files ending in .json are read as
// JSONC; anything else as YAML. Fields absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: user supplied config path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, NewNotFoundError(path)
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return decodeJSON(path, jsonc.ToJSON(data))
	}
	return decodeYAML(path, data)
}

// Discover looks for a config file in root, then for the ampValidator
// field of root/package.json. It returns the defaults and an empty source
// when neither exists.
func Discover(root string) (cfg Config, source string, err error) {
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		if _, statErr := os.Stat(path); statErr == nil {
			cfg, err = Load(path)
			return cfg, path, err
		}
	}

	path := filepath.Join(root, "package.json")
	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading workspace package.json - local trusted environment
	if errors.Is(err, os.ErrNotExist) {
		return Default(), "", nil
	}
	if err != nil {
		return Config{}, "", fmt.Errorf("failed to read package.json: %w", err)
	}

	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return Config{}, "", NewDecodeError(path, err)
	}
	raw, ok := pkg[PackageJSONKey]
	if !ok {
		return Default(), "", nil
	}
	cfg, err = decodeJSON(path+"#"+PackageJSONKey, raw)
	return cfg, path, err
}

// FromMap decodes settings pushed by an LSP client. A nil map yields the
// defaults.
func FromMap(m map[string]any) (Config, error) {
	if m == nil {
		return Default(), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return Config{}, NewDecodeError("settings", err)
	}
	return decodeJSON("settings", data)
}

func decodeYAML(path string, data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, NewDecodeError(path, err)
	}
	return finish(cfg)
}

func decodeJSON(path string, data []byte) (Config, error) {
	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, NewDecodeError(path, err)
	}
	return finish(cfg)
}

func finish(cfg Config) (Config, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
