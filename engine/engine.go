package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/freeeve/uci"
	"github.com/rs/zerolog"
)

// Engine is one analysis worker. Implementations execute exactly one search
// at a time; the pool guarantees a worker is never shared between borrowers.
type Engine interface {
	// BestMove evaluates the given FEN position to the given depth and
	// returns the engine's best move in coordinate notation (e.g. "e2e4").
	BestMove(ctx context.Context, fen string, depth int) (string, error)

	// Close terminates the underlying process. Only called at shutdown.
	Close() error
}

// Options configure a UCI engine subprocess.
type Options struct {
	BinaryPath string
	HashMB     int
	Threads    int
}

// UCIEngine drives a stockfish-compatible engine over the UCI protocol.
type UCIEngine struct {
	id  int
	eng *uci.Engine
	log zerolog.Logger
}

// NewUCIEngine starts the engine binary and configures it. The returned
// worker is ready to search; any startup or handshake failure is returned
// and the process, if started, is torn down.
func NewUCIEngine(id int, opts Options, logger zerolog.Logger) (*UCIEngine, error) {
	if opts.BinaryPath == "" {
		return nil, errors.New("engine binary path required")
	}
	if opts.HashMB <= 0 {
		opts.HashMB = 128
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}

	eng, err := uci.NewEngine(opts.BinaryPath)
	if err != nil {
		return nil, fmt.Errorf("start engine %d: %w", id, err)
	}

	uciOpts := uci.Options{
		Hash:    opts.HashMB,
		Threads: opts.Threads,
		MultiPV: 1,
		Ponder:  false,
		OwnBook: false,
	}
	if err := eng.SetOptions(uciOpts); err != nil {
		eng.Close()
		return nil, fmt.Errorf("configure engine %d: %w", id, err)
	}

	log := logger.With().Int("engine_id", id).Logger()
	log.Info().Str("binary", opts.BinaryPath).Msg("engine worker started")

	return &UCIEngine{id: id, eng: eng, log: log}, nil
}

// BestMove runs one position/search exchange. The underlying UCI driver has
// no cancellation, so a hung engine stalls its borrower; the ctx parameter
// exists for interface symmetry and future drivers.
func (e *UCIEngine) BestMove(ctx context.Context, fen string, depth int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := e.eng.SetFEN(fen); err != nil {
		return "", fmt.Errorf("set position: %w", err)
	}

	results, err := e.eng.GoDepth(depth, uci.HighestDepthOnly)
	if err != nil {
		return "", fmt.Errorf("search depth %d: %w", depth, err)
	}
	if results.BestMove == "" {
		return "", errors.New("engine returned no best move")
	}

	e.log.Debug().Str("fen", fen).Int("depth", depth).Str("move", results.BestMove).Msg("search complete")
	return results.BestMove, nil
}

// Close terminates the engine process.
func (e *UCIEngine) Close() error {
	e.eng.Close()
	e.log.Info().Msg("engine worker stopped")
	return nil
}
