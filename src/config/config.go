package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Document is the raw persisted settings document: a flat map of setting key
// to value, in the generic shapes yaml produces (map[string]interface{},
// []interface{}, scalars).
type Document map[string]interface{}

// LoadDocument loads a settings document from a YAML file. A missing file is
// an empty document, not an error.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	doc := Document(raw)
	if doc == nil {
		doc = Document{}
	}

	return doc, nil
}

// SaveDocument saves a settings document to a YAML file.
func SaveDocument(doc Document, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// DefaultSettingsPath returns the default settings file path.
func DefaultSettingsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".jdk-autoconf", "settings.yaml")
}

// Setting keys owned or managed by the engine.
const (
	KeyRuntimes        = "java.runtimes"
	KeyJavaHome        = "java.home"
	KeyGradleJavaHome  = "java.import.gradle.java.home"
	KeySpringJavaHome  = "spring.tools.java.home"
	KeyApexJavaHome    = "salesforce.apex.java.home"
	KeyTerminalEnvOSX  = "terminal.integrated.env.osx"
	KeyTerminalProfOSX = "terminal.integrated.profiles.osx"
)

// DeprecatedKeys are removed unconditionally whenever present.
var DeprecatedKeys = []string{
	"java.legacy.home",
	"java.requirements.JDK11Warning",
}
