package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Bigcheese1989/KlippAi/core/client"
	"github.com/Bigcheese1989/KlippAi/internal/utils"
	"github.com/Bigcheese1989/KlippAi/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per call.
type LogLevel int

const (
	// LogLevelMinimal logs the backend, request id and duration.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds prompt and completion sizes.
	LogLevelStandard

	// LogLevelVerbose adds the prompt and completion text, each truncated to
	// 500 characters.
	//
	// WARNING: prompts may contain printer API keys or other secrets pasted
	// by the user. Use it for local debugging only.
	LogLevelVerbose
)

const truncateLen = 500

// NewLoggingMiddleware logs every Generate call before and after it reaches
// the provider. Each call gets a fresh request_id; the logger carrying it is
// stored in the context so HTTP-level debug lines can be correlated.
func NewLoggingMiddleware(logger zerolog.Logger, backend string, level LogLevel) client.Middleware {
	return func(next client.GenerateFunc) client.GenerateFunc {
		return func(ctx context.Context, prompt string) (string, error) {
			reqLogger := logger.With().
				Str("request_id", uuid.NewString()).
				Str("backend", backend).
				Logger()
			ctx = reqLogger.WithContext(ctx)

			start := reqLogger.Info()
			if level >= LogLevelStandard {
				start = start.Int("prompt_chars", len(prompt))
			}
			if level >= LogLevelVerbose {
				start = start.Str("prompt", utils.TruncateString(prompt, truncateLen))
			}
			start.Msg("llm generate")

			began := time.Now()
			completion, err := next(ctx, prompt)
			elapsed := time.Since(began)

			if err != nil {
				event := reqLogger.Error().Err(err).Dur("duration", elapsed)
				var upstream *ai.UpstreamError
				if errors.As(err, &upstream) && upstream.StatusCode != 0 {
					event = event.Int("status_code", upstream.StatusCode)
				}
				event.Msg("llm generate failed")
				return "", err
			}

			done := reqLogger.Info().Dur("duration", elapsed)
			if level >= LogLevelStandard {
				done = done.Int("completion_chars", len(completion)).Bool("empty", completion == "")
			}
			if level >= LogLevelVerbose {
				done = done.Str("completion", utils.TruncateString(completion, truncateLen))
			}
			done.Msg("llm generate completed")

			return completion, nil
		}
	}
}
