package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/quantpulse/indicator-engine/internal/config"
	"github.com/quantpulse/indicator-engine/internal/models"
	"github.com/quantpulse/indicator-engine/pkg/indicator"
	"github.com/quantpulse/indicator-engine/pkg/logger"
)

var (
	samplesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_samples_consumed_total",
			Help: "Total number of samples consumed per symbol",
		},
		[]string{"symbol"},
	)

	samplesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_samples_rejected_total",
			Help: "Total number of samples rejected per symbol and reason",
		},
		[]string{"symbol", "reason"},
	)

	trackedSymbols = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_tracked_symbols",
			Help: "Number of symbols with an active evaluation session",
		},
	)
)

// OnSnapshot is a callback invoked after each successful evaluation
type OnSnapshot func(symbol string, snap *indicator.Snapshot)

// session owns one symbol's evaluation engine. Engines are single-threaded,
// so every call on one goes through the session mutex.
type session struct {
	id     string
	symbol string
	engine *indicator.Engine
	mu     sync.Mutex
}

// Service manages one evaluation session per tracked symbol. Sessions share
// the same indicator definitions and are created lazily on first sample.
type Service struct {
	defs       []indicator.Definition
	maxSamples int
	sessions   map[string]*session
	onSnapshot OnSnapshot
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

// DefinitionsFromConfig expands the engine configuration into the standard
// indicator set.
func DefinitionsFromConfig(cfg config.EngineConfig) []indicator.Definition {
	return []indicator.Definition{
		{Kind: indicator.KindSMA, Period: cfg.SMAPeriod},
		{Kind: indicator.KindEMA, Period: cfg.EMASpan},
		{Kind: indicator.KindRSI, Period: cfg.RSIPeriod},
		{Kind: indicator.KindMACD, FastPeriod: cfg.MACDFast, SlowPeriod: cfg.MACDSlow, SignalPeriod: cfg.MACDSignal},
		{Kind: indicator.KindBBands, Period: cfg.BBPeriod, Multiplier: cfg.BBMultiplier},
		{Kind: indicator.KindATR, Period: cfg.ATRPeriod},
		{Kind: indicator.KindWilliamsR, Period: cfg.WilliamsPeriod},
		{Kind: indicator.KindOBV},
		{Kind: indicator.KindVWAP},
		{Kind: indicator.KindROC, Period: cfg.ROCPeriod},
		{Kind: indicator.KindMomentum, Period: cfg.MomentumPeriod},
	}
}

// NewService creates a service. The definitions are validated up front by
// building a throwaway engine, so a bad configuration fails at startup
// rather than on the first sample.
func NewService(defs []indicator.Definition, maxSamples int) (*Service, error) {
	if _, err := indicator.NewEngine(defs, indicator.WithMaxSamples(maxSamples)); err != nil {
		return nil, fmt.Errorf("invalid indicator definitions: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		defs:       defs,
		maxSamples: maxSamples,
		sessions:   make(map[string]*session),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// SetOnSnapshot sets the callback invoked after each successful evaluation
func (s *Service) SetOnSnapshot(callback OnSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSnapshot = callback
}

// getOrCreateSession returns the session for a symbol, creating it on demand.
func (s *Service) getOrCreateSession(symbol string) (*session, error) {
	s.mu.RLock()
	sess, exists := s.sessions[symbol]
	s.mu.RUnlock()
	if exists {
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, exists = s.sessions[symbol]; exists {
		return sess, nil
	}

	engine, err := indicator.NewEngine(s.defs, indicator.WithMaxSamples(s.maxSamples))
	if err != nil {
		return nil, fmt.Errorf("create engine for %s: %w", symbol, err)
	}

	sess = &session{
		id:     uuid.New().String(),
		symbol: symbol,
		engine: engine,
	}
	s.sessions[symbol] = sess
	trackedSymbols.Set(float64(len(s.sessions)))

	logger.Info("Started evaluation session",
		logger.String("symbol", symbol),
		logger.String("session_id", sess.id),
	)
	return sess, nil
}

// ProcessSample feeds one sample into a symbol's session and returns the
// resulting snapshot. Rejected samples are counted and the error returned;
// session state is unchanged so the stream continues with the next sample.
func (s *Service) ProcessSample(symbol string, sample *models.Sample) (*indicator.Snapshot, error) {
	if symbol == "" {
		return nil, models.ErrInvalidSymbol
	}

	sess, err := s.getOrCreateSession(symbol)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	snap, err := sess.engine.EvaluateIncremental(sample)
	sess.mu.Unlock()

	if err != nil {
		samplesRejected.WithLabelValues(symbol, rejectReason(err)).Inc()
		return nil, err
	}
	samplesConsumed.WithLabelValues(symbol).Inc()

	s.mu.RLock()
	callback := s.onSnapshot
	s.mu.RUnlock()
	if callback != nil {
		callback(symbol, snap)
	}

	return snap, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, models.ErrOutOfOrderSample):
		return "out_of_order"
	case errors.Is(err, models.ErrInvalidSample):
		return "invalid_sample"
	default:
		return "other"
	}
}

// Backfill replays a history slice into a symbol's session, skipping samples
// the engine rejects. Returns the number of samples accepted.
func (s *Service) Backfill(symbol string, samples []*models.Sample) (int, error) {
	if symbol == "" {
		return 0, models.ErrInvalidSymbol
	}

	sess, err := s.getOrCreateSession(symbol)
	if err != nil {
		return 0, err
	}

	accepted := 0
	sess.mu.Lock()
	for _, sample := range samples {
		if _, err := sess.engine.EvaluateIncremental(sample); err != nil {
			samplesRejected.WithLabelValues(symbol, rejectReason(err)).Inc()
			continue
		}
		accepted++
	}
	sess.mu.Unlock()

	samplesConsumed.WithLabelValues(symbol).Add(float64(accepted))
	logger.Info("Backfilled session",
		logger.String("symbol", symbol),
		logger.Int("accepted", accepted),
		logger.Int("skipped", len(samples)-accepted),
	)
	return accepted, nil
}

// Snapshot returns the latest snapshot for a symbol
func (s *Service) Snapshot(symbol string) (*indicator.Snapshot, error) {
	sess, err := s.lookup(symbol)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.engine.Snapshot(), nil
}

// Status returns warm-up states for every indicator of a symbol
func (s *Service) Status(symbol string) (map[string]indicator.IndicatorStatus, error) {
	sess, err := s.lookup(symbol)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.engine.Status(), nil
}

// Evaluate runs a batch evaluation over a symbol's buffered history without
// touching its streaming state.
func (s *Service) Evaluate(symbol string) (*indicator.Table, error) {
	sess, err := s.lookup(symbol)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.engine.EvaluateBatch(sess.engine.LastSamples(sess.engine.Len()))
}

// SessionID returns the session identifier for a tracked symbol
func (s *Service) SessionID(symbol string) (string, error) {
	sess, err := s.lookup(symbol)
	if err != nil {
		return "", err
	}
	return sess.id, nil
}

func (s *Service) lookup(symbol string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[symbol]
	if !exists {
		return nil, fmt.Errorf("%w: %s is not tracked", models.ErrInvalidSymbol, symbol)
	}
	return sess, nil
}

// Symbols returns a list of all tracked symbols
func (s *Service) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	symbols := make([]string, 0, len(s.sessions))
	for symbol := range s.sessions {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// SymbolCount returns the number of tracked symbols
func (s *Service) SymbolCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Definitions returns the indicator definitions shared by all sessions
func (s *Service) Definitions() []indicator.Definition {
	defs := make([]indicator.Definition, len(s.defs))
	copy(defs, s.defs)
	return defs
}

// Stop stops the service
func (s *Service) Stop() {
	s.cancel()
}

// Context returns the service's context
func (s *Service) Context() context.Context {
	return s.ctx
}
