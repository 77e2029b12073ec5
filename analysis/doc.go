// Package analysis implements the position-evaluation request handler.
//
// A request carries a FEN position and a search effort. The handler validates
// the input before touching the worker pool, borrows exactly one engine
// worker, drives a single request/response exchange, and releases the worker
// on every exit path. Failures are reported through a small closed taxonomy:
// ErrBadRequest for invalid input (no worker acquired) and ErrEngineFailure
// for a failed worker exchange (worker still released).
package analysis
