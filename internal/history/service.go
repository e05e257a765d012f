// Package history records study packets per user and serves them back.
// Writes are queued and stored in the background so a slow or failing
// database never delays a study response.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/studybuddy/internal/logger"
	"github.com/abhisek/studybuddy/internal/metrics"
	"github.com/abhisek/studybuddy/internal/store"
	"github.com/abhisek/studybuddy/internal/study"
)

// MaxListLimit caps how many entries List returns.
const MaxListLimit = 50

// ErrUserRequired is returned by List and Clear for an empty user id.
var ErrUserRequired = errors.New("authentication required")

// Item is the listing view of one history entry.
type Item struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

// Options tune the write queue. Zero values pick the defaults.
type Options struct {
	QueueSize    int           // default 64
	WriteTimeout time.Duration // default 5s
}

// Service is the history recorder. It satisfies study.Recorder.
type Service struct {
	repo         store.HistoryRepo
	log          *logger.Logger
	writeTimeout time.Duration

	pending  chan writeJob
	loopDone chan struct{}
	inflight sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

type writeJob struct {
	ctx context.Context
	rec *store.HistoryRecord
}

// NewService starts the background writer. Call Close to drain it.
func NewService(repo store.HistoryRepo, opts Options, log *logger.Logger) *Service {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{
		repo:         repo,
		log:          log.With("component", "history"),
		writeTimeout: opts.WriteTimeout,
		pending:      make(chan writeJob, opts.QueueSize),
		loopDone:     make(chan struct{}),
	}
	go s.processLoop()
	return s
}

// Record queues e for storage and returns immediately. When the queue is
// full the write runs on its own goroutine instead of being dropped.
// Failures are logged and counted, never returned.
func (s *Service) Record(ctx context.Context, e study.Entry) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("error").Inc()
		s.log.Error("encode history entry", "user_id", e.UserID, "error", err)
		return
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	job := writeJob{
		ctx: context.WithoutCancel(ctx),
		rec: &store.HistoryRecord{
			ID:        uuid.NewString(),
			UserID:    e.UserID,
			Topic:     e.Topic,
			Mode:      string(e.Mode),
			StudyData: data,
			CreatedAt: createdAt,
		},
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		metrics.HistoryWritesTotal.WithLabelValues("dropped").Inc()
		s.log.Warn("history closed, entry dropped", "user_id", e.UserID, "topic", e.Topic)
		return
	}

	s.inflight.Add(1)
	select {
	case s.pending <- job:
		metrics.HistoryQueueDepth.Inc()
	default:
		s.log.Debug("history queue full, writing on a separate goroutine", "user_id", e.UserID)
		go s.write(job)
	}
}

func (s *Service) processLoop() {
	defer close(s.loopDone)
	for job := range s.pending {
		metrics.HistoryQueueDepth.Dec()
		s.write(job)
	}
}

func (s *Service) write(job writeJob) {
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(job.ctx, s.writeTimeout)
	defer cancel()

	if err := s.repo.Append(ctx, job.rec); err != nil {
		metrics.HistoryWritesTotal.WithLabelValues("error").Inc()
		s.log.Error("failed to save history",
			"user_id", job.rec.UserID,
			"topic", job.rec.Topic,
			"error", err,
		)
		return
	}
	metrics.HistoryWritesTotal.WithLabelValues("ok").Inc()
}

// Close stops accepting entries and waits for queued writes to finish.
// It is safe to call more than once.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.pending)
	s.mu.Unlock()

	<-s.loopDone
	s.inflight.Wait()
}

// List returns up to limit entries for userID, newest first. A limit
// outside (0, MaxListLimit] means MaxListLimit.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Item, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	recs, err := s.repo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(recs))
	for i, r := range recs {
		items[i] = Item{ID: r.ID, Topic: r.Topic, Mode: r.Mode, CreatedAt: r.CreatedAt}
	}
	return items, nil
}

// Clear deletes every entry for userID and reports how many were removed.
func (s *Service) Clear(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrUserRequired
	}
	return s.repo.Clear(ctx, userID)
}
