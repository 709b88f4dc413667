package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/Bigcheese1989/KlippAi/core/parse"
)

// Overrides carries values given on the command line. A nil field means the
// flag was not set, so zero values such as a temperature of 0 are honored.
type Overrides struct {
	Backend     *string
	Model       *string
	Temperature *float64
	MaxTokens   *int
	APIKey      *string
}

// LoadOptions controls where [Load] reads from.
type LoadOptions struct {
	Overrides Overrides
	// Path is the settings file. Empty means [DefaultPath].
	Path string
	// Getenv replaces os.Getenv, mainly for tests.
	Getenv func(string) string
}

// settingsFile is the on-disk YAML layout.
type settingsFile struct {
	Backend           string         `yaml:"backend,omitempty"`
	Model             string         `yaml:"model,omitempty"`
	Temperature       *float64       `yaml:"temperature,omitempty"`
	MaxTokens         *int           `yaml:"max_tokens,omitempty"`
	HFToken           string         `yaml:"hf_token,omitempty"`
	HFBaseURL         string         `yaml:"hf_base_url,omitempty"`
	LlamaCppServerURL string         `yaml:"llamacpp_server_url,omitempty"`
	OllamaHost        string         `yaml:"ollama_host,omitempty"`
	OpenAIAPIKey      string         `yaml:"openai_api_key,omitempty"`
	OpenAIBaseURL     string         `yaml:"openai_base_url,omitempty"`
	Printer           *PrinterConfig `yaml:"printer,omitempty"`
	Klipper           *KlipperConfig `yaml:"klipper,omitempty"`
}

// DefaultPath returns $KLIPPAI_CONFIG, or ~/.config/klippai/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("KLIPPAI_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "klippai", "config.yaml")
	}
	return filepath.Join(home, ".config", "klippai", "config.yaml")
}

// Load resolves the configuration. Each setting is taken from the first
// source that provides it: override, environment, settings file, default.
func Load(opts LoadOptions) (Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	file := readSettings(path)
	ov := opts.Overrides

	backend, err := ParseBackend(first(deref(ov.Backend), getenv("KLIPPAI_BACKEND"), file.Backend, string(DefaultBackend)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Backend: backend,
		Model:   first(deref(ov.Model), getenv("MODEL_NAME"), file.Model, DefaultModel(backend)),
		HuggingFace: HuggingFaceConfig{
			BaseURL: first(file.HFBaseURL, DefaultHuggingFaceURL),
			Token:   first(getenv("HF_TOKEN"), getenv("HUGGING_FACE_HUB_TOKEN"), file.HFToken),
		},
		LlamaCpp: LlamaCppConfig{
			ServerURL: first(getenv("LLAMACPP_SERVER_URL"), file.LlamaCppServerURL, DefaultLlamaCppURL),
		},
		Ollama: OllamaConfig{
			Host: first(getenv("OLLAMA_HOST"), file.OllamaHost, DefaultOllamaHost),
		},
		OpenAI: OpenAIConfig{
			BaseURL: first(getenv("OPENAI_BASE_URL"), file.OpenAIBaseURL, DefaultOpenAIBaseURL),
			APIKey:  first(getenv("OPENAI_API_KEY"), file.OpenAIAPIKey),
		},
		Printer: file.Printer,
	}

	if cfg.Temperature, err = resolveNumber(ov.Temperature, getenv("TEMPERATURE"), file.Temperature, DefaultTemperature, "TEMPERATURE"); err != nil {
		return Config{}, err
	}
	if cfg.MaxTokens, err = resolveNumber(ov.MaxTokens, getenv("MAX_TOKENS"), file.MaxTokens, DefaultMaxTokens, "MAX_TOKENS"); err != nil {
		return Config{}, err
	}
	if cfg.MaxTokens <= 0 {
		return Config{}, fmt.Errorf("max tokens must be positive, got %d", cfg.MaxTokens)
	}

	if key := deref(ov.APIKey); key != "" {
		switch backend {
		case BackendHuggingFace:
			cfg.HuggingFace.Token = key
		case BackendOpenAI:
			cfg.OpenAI.APIKey = key
		}
	}

	var fileKlipper KlipperConfig
	if file.Klipper != nil {
		fileKlipper = *file.Klipper
	}
	cfg.Klipper = KlipperConfig{
		MoonrakerURL: first(getenv("MOONRAKER_URL"), fileKlipper.MoonrakerURL, DefaultMoonrakerURL),
		APIKey:       first(getenv("KLIPPER_API_KEY"), fileKlipper.APIKey),
	}
	if cfg.Printer != nil && cfg.Printer.Kinematics == "" {
		cfg.Printer.Kinematics = DefaultPrinterKinematic
	}

	return cfg, nil
}

// readSettings returns the parsed settings file. A missing or unreadable file
// yields empty settings.
func readSettings(path string) settingsFile {
	var s settingsFile
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("settings file unreadable, ignoring")
		}
		return s
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("settings file malformed, ignoring")
		return settingsFile{}
	}
	return s
}

func resolveNumber[T int | float64](override *T, env string, file *T, def T, name string) (T, error) {
	if override != nil {
		return *override, nil
	}
	if strings.TrimSpace(env) != "" {
		v, err := parse.ParseStringAs[T](strings.TrimSpace(env))
		if err != nil {
			return def, fmt.Errorf("invalid %s: %w", name, err)
		}
		return v, nil
	}
	if file != nil {
		return *file, nil
	}
	return def, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
