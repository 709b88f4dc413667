package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Backend identifies one of the supported LLM serving systems.
type Backend string

const (
	BackendHuggingFace Backend = "huggingface"
	BackendLlamaCpp    Backend = "llamacpp"
	BackendOllama      Backend = "ollama"
	BackendOpenAI      Backend = "openai"
)

// ErrUnsupportedBackend is returned by the loader when the selected backend
// is not one of [Backends].
var ErrUnsupportedBackend = errors.New("unsupported backend")

// Backends lists every backend the loader accepts, in display order.
func Backends() []Backend {
	return []Backend{BackendHuggingFace, BackendLlamaCpp, BackendOllama, BackendOpenAI}
}

// ParseBackend normalizes s and checks it against the supported set.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Backends(), b) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, s)
	}
	return b, nil
}

// Default values applied when no override, environment variable or settings
// file entry provides one.
const (
	DefaultBackend          = BackendHuggingFace
	DefaultTemperature      = 0.3
	DefaultMaxTokens        = 256
	DefaultHuggingFaceURL   = "https://api-inference.huggingface.co/models"
	DefaultLlamaCppURL      = "http://localhost:8080"
	DefaultOllamaHost       = "http://localhost:11434"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultMoonrakerURL     = "http://localhost:7125"
	DefaultPrinterKinematic = "cartesian"
)

// DefaultModel returns the model used for backend when none is configured.
func DefaultModel(backend Backend) string {
	switch backend {
	case BackendHuggingFace:
		return "mistralai/Mistral-7B-Instruct-v0.2"
	case BackendLlamaCpp:
		return "default"
	case BackendOllama:
		return "llama3"
	case BackendOpenAI:
		return "gpt-4o-mini"
	default:
		return ""
	}
}

// Config is the resolved, read-only configuration for one process.
// Build it with [Load]; providers copy the fields they need.
type Config struct {
	Backend     Backend
	Model       string
	Temperature float64
	MaxTokens   int

	HuggingFace HuggingFaceConfig
	LlamaCpp    LlamaCppConfig
	Ollama      OllamaConfig
	OpenAI      OpenAIConfig

	Printer *PrinterConfig
	Klipper KlipperConfig
}

type HuggingFaceConfig struct {
	BaseURL string
	Token   string
}

type LlamaCppConfig struct {
	ServerURL string
}

type OllamaConfig struct {
	Host string
}

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
}

// PrinterConfig describes the physical printer attached to Moonraker.
type PrinterConfig struct {
	Make       string  `yaml:"make"`
	Model      string  `yaml:"model"`
	BedWidthMM float64 `yaml:"bed_width_mm"`
	BedDepthMM float64 `yaml:"bed_depth_mm"`
	OriginXMM  float64 `yaml:"origin_x_mm"`
	OriginYMM  float64 `yaml:"origin_y_mm"`
	Kinematics string  `yaml:"kinematics"`
}

// KlipperConfig holds the Moonraker connection details.
type KlipperConfig struct {
	MoonrakerURL string `yaml:"moonraker_url"`
	APIKey       string `yaml:"api_key,omitempty"`
}

// Credential returns the secret the selected backend authenticates with, or
// the empty string for backends that need none.
func (c Config) Credential() string {
	switch c.Backend {
	case BackendHuggingFace:
		return c.HuggingFace.Token
	case BackendOpenAI:
		return c.OpenAI.APIKey
	default:
		return ""
	}
}

// RequiresCredential reports whether the backend refuses to start without a
// credential.
func (b Backend) RequiresCredential() bool {
	return b == BackendHuggingFace || b == BackendOpenAI
}

// CredentialHint names the environment variable that supplies the backend's
// credential.
func (b Backend) CredentialHint() string {
	switch b {
	case BackendHuggingFace:
		return "HF_TOKEN"
	case BackendOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// Kinematics accepted by the setup wizard.
var Kinematics = []string{"cartesian", "corexy", "delta", "bedslinger", "scara", "other"}

// ParseKinematics lowercases s and checks it against [Kinematics].
func ParseKinematics(s string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(Kinematics, k) {
		return "", fmt.Errorf("unknown kinematics %q (want one of %s)", s, strings.Join(Kinematics, ", "))
	}
	return k, nil
}
