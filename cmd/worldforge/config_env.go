package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"worldforge/internal/config"
)

const (
	envConfigJSON = "WORLDFORGE_CONFIG_JSON"
	envConfigYAML = "WORLDFORGE_CONFIG_YAML"
)

// writeConfigFromEnv materializes a configuration passed through the
// environment at cfgPath, so container deployments can ship a config without
// mounting a file. Payloads overlay the defaults. It reports whether a file
// was written.
func writeConfigFromEnv(cfgPath string) (bool, error) {
	jsonPayload := os.Getenv(envConfigJSON)
	yamlPayload := os.Getenv(envConfigYAML)
	if jsonPayload == "" && yamlPayload == "" {
		return false, nil
	}
	if cfgPath == "" {
		return false, fmt.Errorf("%s or %s set but no -config path supplied", envConfigJSON, envConfigYAML)
	}

	cfg := config.Default()
	if jsonPayload != "" {
		if err := json.Unmarshal([]byte(jsonPayload), cfg); err != nil {
			return false, fmt.Errorf("decode %s: %w", envConfigJSON, err)
		}
	} else if err := yaml.Unmarshal([]byte(yamlPayload), cfg); err != nil {
		return false, fmt.Errorf("decode %s: %w", envConfigYAML, err)
	}
	if err := cfg.Validate(); err != nil {
		return false, fmt.Errorf("validate environment config: %w", err)
	}

	if dir := filepath.Dir(cfgPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create config directory: %w", err)
		}
	}
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(cfgPath)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return false, fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}
