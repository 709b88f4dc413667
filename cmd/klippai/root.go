package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Bigcheese1989/KlippAi/core/client"
	"github.com/Bigcheese1989/KlippAi/core/client/middleware"
	"github.com/Bigcheese1989/KlippAi/core/parse"
	"github.com/Bigcheese1989/KlippAi/internal/config"
	"github.com/Bigcheese1989/KlippAi/internal/logging"
	"github.com/Bigcheese1989/KlippAi/providers/ai/factory"
	"github.com/Bigcheese1989/KlippAi/providers/webpage"
)

type rootFlags struct {
	backend     string
	model       string
	temperature float64
	maxTokens   int
	apiKey      string
	repl        bool
	url         string
	jsonOut     bool
	configPath  string
}

func newRootCommand() *cobra.Command {
	var f rootFlags

	cmd := &cobra.Command{
		Use:           "klippai [query]",
		Short:         "Ask an LLM backend a question from the terminal",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, f, strings.TrimSpace(strings.Join(args, " ")))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.backend, "backend", "", "backend to use: "+backendList())
	flags.StringVar(&f.model, "model", "", "model name override")
	flags.Float64Var(&f.temperature, "temperature", 0, "sampling temperature override")
	flags.IntVar(&f.maxTokens, "max-tokens", 0, "maximum tokens to generate")
	flags.StringVar(&f.apiKey, "api-key", "", "credential for the selected backend")
	flags.BoolVar(&f.repl, "repl", false, "start an interactive session")
	flags.StringVar(&f.url, "url", "", "fetch a web page and attach it to every prompt")
	flags.BoolVar(&f.jsonOut, "json", false, "print only the JSON document found in the answer")
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "", "settings file (default $KLIPPAI_CONFIG or ~/.config/klippai/config.yaml)")

	cmd.AddCommand(newSetupCommand(&f.configPath))
	return cmd
}

// setupLogging loads .env, then installs the process logger on the command
// context and as zerolog's global logger.
func setupLogging(cmd *cobra.Command) {
	envErr := godotenv.Load()

	logger := logging.New(cmd.ErrOrStderr(), logging.LevelFromEnv(nil))
	log.Logger = logger
	cmd.SetContext(logger.WithContext(cmd.Context()))

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn().Err(envErr).Msg("could not load .env")
	}
}

func overridesFromFlags(flags *pflag.FlagSet, f rootFlags) config.Overrides {
	var ov config.Overrides
	if flags.Changed("backend") {
		ov.Backend = &f.backend
	}
	if flags.Changed("model") {
		ov.Model = &f.model
	}
	if flags.Changed("temperature") {
		ov.Temperature = &f.temperature
	}
	if flags.Changed("max-tokens") {
		ov.MaxTokens = &f.maxTokens
	}
	if flags.Changed("api-key") {
		ov.APIKey = &f.apiKey
	}
	return ov
}

func runRoot(cmd *cobra.Command, f rootFlags, query string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := config.Load(config.LoadOptions{
		Overrides: overridesFromFlags(cmd.Flags(), f),
		Path:      f.configPath,
	})
	if err != nil {
		return err
	}
	if cfg.Backend.RequiresCredential() && cfg.Credential() == "" {
		logger.Warn().Str("backend", string(cfg.Backend)).Msgf("set %s or pass --api-key", cfg.Backend.CredentialHint())
	}

	provider, err := factory.CreateProvider(cfg)
	if err != nil {
		return err
	}
	llm, err := client.New(provider, client.WithMiddleware(
		middleware.NewLoggingMiddleware(*logger, provider.Name(), middleware.LogLevelStandard),
		middleware.NewTimeoutMiddleware(middleware.DefaultGenerateTimeout),
	))
	if err != nil {
		return err
	}

	s := &session{llm: llm, out: cmd.OutOrStdout(), jsonOut: f.jsonOut}
	if f.url != "" {
		page, err := webpage.Fetch(ctx, webpage.Input{URL: f.url})
		if err != nil {
			return fmt.Errorf("attach %s: %w", f.url, err)
		}
		logger.Info().Str("url", page.URL).Int("chars", len(page.Markdown)).Msg("page attached")
		s.page = &page
	}

	// A query always means a single shot, even with --repl.
	if query != "" {
		return s.ask(ctx, query)
	}
	if !f.repl {
		fmt.Fprintln(cmd.ErrOrStderr(), "No query provided. Starting REPL...")
	}
	return runREPL(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), s)
}

type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// session holds what every prompt of one invocation shares.
type session struct {
	llm     generator
	out     io.Writer
	page    *webpage.Page
	jsonOut bool
}

func (s *session) ask(ctx context.Context, prompt string) error {
	if s.page != nil {
		prompt = webpage.AttachToPrompt(*s.page, prompt)
	}
	text, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return err
	}
	if s.jsonOut {
		doc, err := parse.ExtractJSON(text)
		if err != nil {
			return fmt.Errorf("answer has no JSON document: %w", err)
		}
		text = doc
	}
	_, err = fmt.Fprintln(s.out, text)
	return err
}

func backendList() string {
	names := make([]string, 0, len(config.Backends()))
	for _, b := range config.Backends() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}
