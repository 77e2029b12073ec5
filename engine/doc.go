// Package engine manages the external chess engine workers that back the
// analysis endpoint.
//
// The engine package implements:
//   - A narrow Engine interface over a UCI-speaking subprocess
//   - A fixed-size Pool that lends workers to callers one at a time
//   - Fair FIFO queuing when every worker is busy
//
// Architecture:
//
// Each worker is a long-lived external process started once at boot and shut
// down only at exit. The Pool owns every idle worker; a borrower holds
// exclusive use of its worker between Acquire and Release. When no worker is
// idle, Acquire parks the caller on a queue of one-shot handles and Release
// hands the returning worker directly to the longest-waiting caller, so no
// caller is ever skipped while others behind it are served.
//
// Failure model:
//
// A failed search does not remove a worker from circulation; the borrower is
// expected to Release it regardless of outcome. Failing to start any worker
// during pool construction aborts construction entirely, so a partial pool
// never runs.
package engine
