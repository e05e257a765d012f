package cmd

import (
	"context"
	"errors"

	"github.com/abhisek/studybuddy/internal/history"
	"github.com/abhisek/studybuddy/internal/knowledge"
	"github.com/abhisek/studybuddy/internal/llm"
	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/study"
)

// app is the wired service shared by serve and study.
type app struct {
	pipeline *study.Pipeline
	history  *history.Service
}

// Close drains queued history writes.
func (a *app) Close() {
	a.history.Close()
}

// buildApp wires the pipeline on top of st. A missing AI key is not fatal:
// the pipeline then runs on its offline sources only.
func buildApp(ctx context.Context, st *store.Store, log *logger.Logger) (*app, error) {
	hist := history.NewService(st.HistoryRepo(), history.Options{
		QueueSize:    cfg.History.QueueSize,
		WriteTimeout: cfg.History.WriteTimeout,
	}, log)

	pc := study.PipelineConfig{
		Fetcher:  knowledge.NewFetcher(cfg.Wikipedia.BaseURL, cfg.Wikipedia.Timeout, log),
		Recorder: hist,
		Logger:   log,
	}

	provider, err := llm.NewProvider(ctx, cfg.Provider(), st.EventRepo(), log)
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn("AI provider not configured, using offline content only", "error", err)
	case err != nil:
		hist.Close()
		return nil, err
	default:
		log.Info("AI provider ready", "model", provider.ModelID())
		pc.Generator = study.NewGenerator(provider, cfg.LLM.GenerateTimeout, log)
		pc.Tutor = study.NewTutor(provider, study.DefaultTutorRetry(), cfg.LLM.TutorTimeout, log)
	}

	return &app{pipeline: study.NewPipeline(pc), history: hist}, nil
}
