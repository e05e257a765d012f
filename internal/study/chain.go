package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/metrics"
)

// Input is what a content source works from. For math problems Topic is
// the problem text and Extract is empty.
type Input struct {
	Topic   string
	Extract string
	URL     string
	Mode    Mode
}

// ContentSource produces a study packet for an input.
type ContentSource interface {
	Name() string
	Produce(ctx context.Context, in Input) (*Packet, error)
}

// Chain tries its sources in order and returns the first packet produced.
type Chain struct {
	name    string
	sources []ContentSource
	log     *logger.Logger
}

// NewChain builds a named fallback chain. The name labels metrics and logs.
func NewChain(name string, log *logger.Logger, sources ...ContentSource) *Chain {
	if log == nil {
		log = logger.Nop()
	}
	return &Chain{name: name, sources: sources, log: log}
}

// Produce returns the first successful packet. When every source fails the
// joined errors are returned.
func (c *Chain) Produce(ctx context.Context, in Input) (*Packet, error) {
	var errs []error
	for i, src := range c.sources {
		p, err := src.Produce(ctx, in)
		if err == nil {
			return p, nil
		}

		metrics.FallbacksTotal.WithLabelValues(c.name, src.Name()).Inc()
		kv := []any{"chain", c.name, "source", src.Name(), "topic", in.Topic, "error", err}
		if i+1 < len(c.sources) {
			kv = append(kv, "next", c.sources[i+1].Name())
		}
		c.log.Warn("content source failed", kv...)
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("chain %s has no sources", c.name)
	}
	return nil, errors.Join(errs...)
}
