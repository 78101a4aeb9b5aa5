package utils

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// PrettyPrintJSON formats a value as indented JSON
func PrettyPrintJSON(v interface{}) (string, error) {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(bytes), nil
}

// PrettyPrintYAML formats a value as YAML
func PrettyPrintYAML(v interface{}) (string, error) {
	bytes, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(bytes), nil
}
