package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/classify"
	"github.com/abhisek/studybuddy/internal/knowledge"
	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/metrics"
)

// Fetcher looks up an encyclopedia summary for a topic.
type Fetcher interface {
	Fetch(ctx context.Context, topic string) (*knowledge.Summary, error)
}

// Entry is one history record handed to a Recorder.
type Entry struct {
	UserID    string
	Topic     string
	Mode      Mode
	Data      Data
	CreatedAt time.Time
}

// Recorder accepts history entries without blocking the caller. Failures
// are its own concern.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Request is one call to Pipeline.Produce.
type Request struct {
	Query  string
	Mode   string
	UserID string // empty for anonymous callers; nothing is recorded
}

// errFallThrough demotes a request to the next matching route.
var errFallThrough = errors.New("fall through to next route")

type route struct {
	name    string
	produce func(ctx context.Context, c classify.Result, mode Mode) (*Packet, Mode, error)
}

// Pipeline routes a query to the framework, math or general producer, in
// that order of precedence.
type Pipeline struct {
	fetcher  Fetcher
	general  *Chain
	math     *Chain
	recorder Recorder
	log      *logger.Logger
	now      func() time.Time
	framework, mathRoute, generalRoute route
}

// PipelineConfig holds the collaborators of a Pipeline.
type PipelineConfig struct {
	Fetcher   Fetcher
	Generator ContentSource // AI packet source for the general route
	Tutor     ContentSource // AI source for the math route
	Recorder  Recorder      // optional

	// Synthesizer is the offline source for the general route. Defaults
	// to NewSynthesizer().
	Synthesizer *Synthesizer
	Logger      *logger.Logger
}

// NewPipeline assembles the general chain (AI, then synthesized from the
// extract) and the math chain (AI tutor, then the basic solver).
func NewPipeline(cfg PipelineConfig) *Pipeline {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "pipeline")

	var general, math []ContentSource
	if cfg.Generator != nil {
		general = append(general, cfg.Generator)
	}
	synth := cfg.Synthesizer
	if synth == nil {
		synth = NewSynthesizer()
	}
	general = append(general, synth)
	if cfg.Tutor != nil {
		math = append(math, cfg.Tutor)
	}
	math = append(math, BasicSolver{})

	p := &Pipeline{
		fetcher:  cfg.Fetcher,
		general:  NewChain("general", log, general...),
		math:     NewChain("math", log, math...),
		recorder: cfg.Recorder,
		log:      log,
		now:      time.Now,
	}
	p.framework = route{name: "framework", produce: p.produceFramework}
	p.mathRoute = route{name: "math", produce: p.produceMath}
	p.generalRoute = route{name: "general", produce: p.produceGeneral}
	return p
}

// plan lists the routes to try for c, most specific first. A definitional
// question that also reads as math demotes to the math route before the
// general one.
func (p *Pipeline) plan(c classify.Result) []route {
	switch c.Kind {
	case classify.Definitional:
		if c.MathRule != "" {
			return []route{p.framework, p.mathRoute, p.generalRoute}
		}
		return []route{p.framework, p.generalRoute}
	case classify.Math:
		return []route{p.mathRoute, p.generalRoute}
	default:
		return []route{p.generalRoute}
	}
}

// Produce builds a packet for req. Only encyclopedia failures on the
// general route reach the caller; AI failures are absorbed by fallbacks.
// When req.UserID is set the packet is handed to the Recorder without
// waiting for it to be stored.
func (p *Pipeline) Produce(ctx context.Context, req Request) (*Packet, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	c := classify.Classify(query)
	p.log.Debug("query classified", "query", query, "kind", c.Kind, "rule", c.Rule, "mode", mode)

	for _, r := range p.plan(c) {
		pkt, recorded, err := r.produce(ctx, c, mode)
		if errors.Is(err, errFallThrough) {
			metrics.DemotionsTotal.WithLabelValues(r.name).Inc()
			p.log.Info("route demoted", "route", r.name, "query", query, "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}

		metrics.PacketsTotal.WithLabelValues(r.name, string(pkt.Source)).Inc()
		p.record(ctx, req.UserID, pkt, recorded)
		return pkt, nil
	}
	return nil, fmt.Errorf("no route accepted %q", query)
}

func (p *Pipeline) produceFramework(ctx context.Context, c classify.Result, _ Mode) (*Packet, Mode, error) {
	summary, err := p.fetcher.Fetch(ctx, c.Topic)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", errFallThrough, err)
	}
	return FrameworkPacket(c.Topic, summary), ModeFramework, nil
}

// The math and general routes work from the whole query, not c.Topic,
// since a demoted definitional question keeps its interrogative.
func (p *Pipeline) produceMath(ctx context.Context, c classify.Result, _ Mode) (*Packet, Mode, error) {
	pkt, err := p.math.Produce(ctx, Input{Topic: c.Query, Mode: ModeMath})
	if err != nil {
		return nil, "", err
	}
	return pkt, ModeMath, nil
}

func (p *Pipeline) produceGeneral(ctx context.Context, c classify.Result, mode Mode) (*Packet, Mode, error) {
	summary, err := p.fetcher.Fetch(ctx, c.Query)
	if err != nil {
		return nil, "", err
	}
	topic := summary.Title
	if topic == "" {
		topic = c.Query
	}
	pkt, err := p.general.Produce(ctx, Input{
		Topic:   topic,
		Extract: summary.Extract,
		URL:     summary.URL,
		Mode:    mode,
	})
	if err != nil {
		return nil, "", err
	}
	return pkt, mode, nil
}

func (p *Pipeline) record(ctx context.Context, userID string, pkt *Packet, mode Mode) {
	if userID == "" || p.recorder == nil {
		return
	}
	p.recorder.Record(context.WithoutCancel(ctx), Entry{
		UserID:    userID,
		Topic:     pkt.Topic,
		Mode:      mode,
		Data:      pkt.HistoryData(),
		CreatedAt: p.now().UTC(),
	})
}
