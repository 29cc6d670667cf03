// Package session drives a single background analysis run over a batch.
//
// A Controller owns at most one active Session. Start copies the batch, locks
// the caller's controls through the Sink and processes items strictly in
// order on one goroutine. Cancel is cooperative: the run polls a flag at the
// start of every item, so the item in flight always finishes.
//
// Per-item failures, including a lack of disk space, mark only that item and
// the run moves on. Status writes go to the live StatusTarget rather than the
// snapshot, and writes for rows that no longer exist are dropped.
//
//	Idle -> Running -> Completed
//	                -> Cancelling -> Cancelled
//	                -> Failed
package session
