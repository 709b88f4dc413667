package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SavePrinterAndKlipper writes the printer and klipper sections to the
// settings file at path, keeping every other key already stored there.
func SavePrinterAndKlipper(path string, printer PrinterConfig, klipper KlipperConfig) error {
	if path == "" {
		path = DefaultPath()
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil || doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read settings: %w", err)
	}

	doc["printer"] = printer
	doc["klipper"] = klipper

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	// The file can hold API keys.
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
