package botscore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"botwatch/internal/graph"
	"botwatch/internal/logging"
	"botwatch/internal/metrics"
	"botwatch/internal/ports"
)

const (
	DefaultLimit = 200
	MaxLimit     = 5000

	TriggerManual = "manual"
)

type Options struct {
	DefaultLimit int
	MaxLimit     int
	// Workers bounds per-account concurrency; 1 scores accounts one by one.
	Workers int
	Visitor graph.Visitor
	Now     func() time.Time
	Logger  logging.Logger
}

// Service is the batch orchestrator.
type Service struct {
	accounts ports.AccountRepository
	posts    ports.PostRepository
	events   ports.EventRepository
	runs     ports.RunRepository
	opts     Options
	flight   singleflight.Group
}

func New(accounts ports.AccountRepository, posts ports.PostRepository, events ports.EventRepository, runs ports.RunRepository, opts Options) *Service {
	if opts.MaxLimit <= 0 || opts.MaxLimit > MaxLimit {
		opts.MaxLimit = MaxLimit
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	opts.DefaultLimit = min(opts.DefaultLimit, opts.MaxLimit)
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Visitor == nil {
		opts.Visitor = graph.ShuffleVisitor(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Service{accounts: accounts, posts: posts, events: events, runs: runs, opts: opts}
}

// Limit resolves a requested batch size: non-positive means the default and
// anything above the cap is cut to the cap.
func (s *Service) Limit(requested int) int {
	if requested <= 0 {
		return s.opts.DefaultLimit
	}
	return min(requested, s.opts.MaxLimit)
}

// RunBatch scores up to req.Limit accounts. Only one batch runs per process;
// a request arriving while one is in flight waits for it and receives its
// result. A started batch always finishes, even if ctx is cancelled.
func (s *Service) RunBatch(ctx context.Context, req ports.BatchRequest) (ports.BatchResult, error) {
	if req.Trigger == "" {
		req.Trigger = TriggerManual
	}
	req.Limit = s.Limit(req.Limit)

	ch := s.flight.DoChan("batch", func() (any, error) {
		return s.run(context.WithoutCancel(ctx), req)
	})
	res := <-ch
	if res.Shared {
		s.opts.Logger.WithFields(logging.Fields{
			"trigger": req.Trigger,
			"limit":   req.Limit,
		}).Info("joined in-flight bot score batch")
	}
	if res.Err != nil {
		return ports.BatchResult{}, res.Err
	}
	return res.Val.(ports.BatchResult), nil
}

func (s *Service) run(ctx context.Context, req ports.BatchRequest) (ports.BatchResult, error) {
	started := s.opts.Now()
	runID, err := s.runs.StartRun(ctx, req.Trigger, req.Limit)
	if err != nil {
		metrics.BatchRuns.WithLabelValues(req.Trigger, "failed").Inc()
		return ports.BatchResult{}, fmt.Errorf("start run: %w", err)
	}
	log := s.opts.Logger.WithFields(logging.Fields{
		"run_id":  runID,
		"trigger": req.Trigger,
		"limit":   req.Limit,
	})

	processed, failed, err := s.score(ctx, runID, req.Limit)
	metrics.BatchDuration.Observe(s.opts.Now().Sub(started).Seconds())
	if err != nil {
		metrics.BatchRuns.WithLabelValues(req.Trigger, "failed").Inc()
		if ferr := s.runs.FailRun(ctx, runID, err.Error()); ferr != nil {
			log.WithError(ferr).Warn("record failed run")
		}
		log.WithError(err).Error("bot score batch failed")
		return ports.BatchResult{}, err
	}
	if err := s.runs.CompleteRun(ctx, runID, processed, failed); err != nil {
		log.WithError(err).Warn("record completed run")
	}
	metrics.BatchRuns.WithLabelValues(req.Trigger, "completed").Inc()
	log.WithFields(logging.Fields{
		"processed": processed,
		"failed":    failed,
		"took":      s.opts.Now().Sub(started).String(),
	}).Info("bot score batch completed")

	return ports.BatchResult{RunID: runID, Processed: processed, Failed: failed, RanAt: started}, nil
}

func (s *Service) score(ctx context.Context, runID string, limit int) (int, int, error) {
	accounts, err := s.accounts.ListForScoring(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("load accounts: %w", err)
	}
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if a.ID != "" {
			ids = append(ids, a.ID)
		}
	}
	batchPosts, err := s.posts.ListByArtists(ctx, ids)
	if err != nil {
		return 0, 0, fmt.Errorf("load batch posts: %w", err)
	}

	batch := NewBatchContext(accounts, batchPosts, s.opts.Visitor)
	metrics.Communities.Set(float64(batch.Communities))
	s.opts.Logger.WithFields(logging.Fields{
		"run_id":      runID,
		"accounts":    len(ids),
		"edges":       batch.Graph.EdgeCount(),
		"communities": batch.Communities,
	}).Debug("batch graph ready")

	var processed, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)
	for _, id := range ids {
		g.Go(func() error {
			if err := s.scoreAccount(ctx, batch, id); err != nil {
				failed.Add(1)
				metrics.AccountsFailed.Inc()
				s.opts.Logger.WithFields(logging.Fields{
					"run_id":     runID,
					"account_id": id,
				}).WithError(err).Warn("bot score skipped for account")
				return nil
			}
			processed.Add(1)
			metrics.AccountsScored.Inc()
			return nil
		})
	}
	_ = g.Wait()
	return int(processed.Load()), int(failed.Load()), nil
}

// scoreAccount reads the account's full history, scores it and writes the
// result. Panics are turned into errors so one account cannot end the batch.
func (s *Service) scoreAccount(ctx context.Context, batch *BatchContext, accountID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic scoring account: %v", r)
		}
	}()

	posts, err := s.posts.ListByArtist(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load posts: %w", err)
	}
	events, err := s.events.ListByUser(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load events: %w", err)
	}
	now := s.opts.Now()
	rec := batch.Score(accountID, posts, events, now)
	if err := s.accounts.SaveBotScore(ctx, accountID, rec.BotScore, rec, now); err != nil {
		return fmt.Errorf("save bot score: %w", err)
	}
	metrics.BotScores.Observe(rec.BotScore)
	return nil
}

var _ ports.BotScorer = (*Service)(nil)
