package config

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSavePrinterAndKlipper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("backend: openai\nopenai_api_key: sk-keep\nprinter:\n  make: Old\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	printer := PrinterConfig{Make: "Prusa", Model: "MK4", BedWidthMM: 250, BedDepthMM: 210, Kinematics: "bedslinger"}
	klipper := KlipperConfig{MoonrakerURL: "http://prusa.local:7125"}
	if err := SavePrinterAndKlipper(path, printer, klipper); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := Load(LoadOptions{Path: path, Getenv: envMap(nil)})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if cfg.Backend != BackendOpenAI || cfg.OpenAI.APIKey != "sk-keep" {
		t.Errorf("existing settings lost: %+v", cfg)
	}
	if cfg.Printer == nil || *cfg.Printer != printer {
		t.Errorf("expected printer %+v, got %+v", printer, cfg.Printer)
	}
	if cfg.Klipper.MoonrakerURL != klipper.MoonrakerURL {
		t.Errorf("expected klipper %+v, got %+v", klipper, cfg.Klipper)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600, got %o", perm)
	}
}

func TestSaveCreatesFileAndDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.yaml")

	err := SavePrinterAndKlipper(path, PrinterConfig{Make: "x", Kinematics: "delta"}, KlipperConfig{MoonrakerURL: "http://p:7125", APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc) != 2 {
		t.Errorf("expected only printer and klipper sections, got %v", doc)
	}
	klipper, _ := doc["klipper"].(map[string]any)
	if klipper["api_key"] != "k" {
		t.Errorf("expected api key saved, got %v", klipper)
	}
}
