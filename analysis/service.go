package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wricardo/chessrelay/engine"
	"github.com/wricardo/chessrelay/validate"
)

var (
	// ErrBadRequest flags invalid client input. The pool is never touched.
	ErrBadRequest = errors.New("bad request")

	// ErrEngineFailure flags a failed worker exchange. The worker has
	// already been released back to the pool when this is returned.
	ErrEngineFailure = errors.New("engine failure")
)

// Request is one evaluation request. Effort is a search depth; zero or
// negative values fall back to the configured default.
type Request struct {
	Position string `json:"position"`
	Effort   int    `json:"effort"`
}

// Result carries the engine's best move for the requested position.
type Result struct {
	Move string `json:"move"`
}

// Limits bound the search effort accepted from clients.
type Limits struct {
	DefaultDepth int
	MaxDepth     int
}

// Service runs evaluation requests against a pool of engine workers.
// Any number of requests may run concurrently; beyond the pool size they
// queue transparently inside Pool.Acquire.
type Service struct {
	pool   *engine.Pool
	limits Limits
	log    zerolog.Logger
}

// NewService creates an analysis service backed by pool.
func NewService(pool *engine.Pool, limits Limits, logger zerolog.Logger) *Service {
	if limits.DefaultDepth <= 0 {
		limits.DefaultDepth = 12
	}
	if limits.MaxDepth < limits.DefaultDepth {
		limits.MaxDepth = limits.DefaultDepth
	}
	return &Service{
		pool:   pool,
		limits: limits,
		log:    logger.With().Str("component", "analysis").Logger(),
	}
}

// BestMove validates req, borrows a worker, and runs one search exchange.
// The worker is released exactly once regardless of outcome.
func (s *Service) BestMove(ctx context.Context, req Request) (*Result, error) {
	fen := strings.TrimSpace(req.Position)
	if fen == "" {
		return nil, fmt.Errorf("%w: position is required", ErrBadRequest)
	}
	if err := validate.FEN(fen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	depth := req.Effort
	if depth <= 0 {
		depth = s.limits.DefaultDepth
	}
	if depth > s.limits.MaxDepth {
		depth = s.limits.MaxDepth
	}

	eng, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: acquire worker: %v", ErrEngineFailure, err)
	}
	defer s.pool.Release(eng)

	start := time.Now()
	move, err := eng.BestMove(ctx, fen, depth)
	if err != nil {
		s.log.Warn().Err(err).Str("fen", fen).Int("depth", depth).Msg("engine exchange failed")
		return nil, fmt.Errorf("%w: %v", ErrEngineFailure, err)
	}

	s.log.Debug().
		Str("fen", fen).
		Int("depth", depth).
		Str("move", move).
		Dur("elapsed", time.Since(start)).
		Msg("position evaluated")

	return &Result{Move: move}, nil
}

// PoolStats exposes pool occupancy for the health endpoint.
func (s *Service) PoolStats() engine.Stats {
	return s.pool.Stats()
}
