package llm

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/metrics"
	"github.com/abhisek/studybuddy/internal/store"
)

// LoggingProvider is a decorator that journals every LLM request as an
// event, logs its outcome and feeds the LLM metrics.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with event logging. A nil repo skips the
// journal but still logs and records metrics.
func WithLogging(p Provider, providerName string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: p, provider: providerName, eventRepo: repo, log: log.With("component", "llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	elapsed := time.Since(start)
	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   elapsed.Milliseconds(),
		Success:     err == nil,
		RequestBody: req.Transcript(),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("LLM request failed", "purpose", purpose, "model", data.Model, "latency_ms", data.LatencyMs, "error", err)
	} else {
		l.log.Debug("LLM request", "purpose", purpose, "model", data.Model, "latency_ms", data.LatencyMs,
			"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)
	}

	metrics.LLMRequestsTotal.WithLabelValues(purpose, outcome(err)).Inc()
	metrics.LLMRequestDurationSeconds.WithLabelValues(purpose).Observe(elapsed.Seconds())
	metrics.LLMTokensTotal.WithLabelValues("input").Add(float64(data.InputTokens))
	metrics.LLMTokensTotal.WithLabelValues("output").Add(float64(data.OutputTokens))

	if l.eventRepo != nil {
		// The caller's deadline may already be spent; the journal write
		// should still land.
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.log.Warn("failed to journal LLM request", "error", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// outcome buckets an error into a low-cardinality metric label.
func outcome(err error) string {
	var (
		badKey   *ErrInvalidKey
		quota    *ErrQuotaExceeded
		rl       *ErrRateLimit
		over     *ErrOverloaded
		timeout  *ErrTimeout
		invalid  *ErrInvalidResponse
		maxTok   *ErrMaxTokensExceeded
		canceled = errors.Is(err, context.Canceled)
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &badKey):
		return "invalid_key"
	case errors.As(err, &quota):
		return "quota"
	case errors.As(err, &rl):
		return "rate_limited"
	case errors.As(err, &over):
		return "overloaded"
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &invalid), errors.As(err, &maxTok):
		return "malformed"
	case canceled:
		return "canceled"
	default:
		return "unavailable"
	}
}
