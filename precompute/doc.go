// Package precompute runs one grid Dijkstra per named source point across a
// bounded worker pool.
//
// Overview:
//
//   - Run validates the request, starts the pool and returns a *Job at once;
//     the caller drains Job.Events() on its own schedule and calls Wait for
//     the Outcome.
//   - Workers share the immutable *gridgraph.CostGrid and write nothing
//     shared; each finished source is handed to a single collector over a
//     channel.
//   - Cancellation is cooperative and checked between sources. A source that
//     has started always runs to completion, and a canceled source never
//     yields partial maps.
//   - A source whose cell is impassable fails with *UnreachableSourceError and
//     is listed in Outcome.Failed; its siblings are unaffected.
//
// Events:
//
//	EventProgress      – one source finished; Fraction counts failures as done.
//	EventSourceFailed  – one source failed; Err is its *UnreachableSourceError.
//	EventDone          – last event; the channel is closed after it.
//
// The events channel is buffered for every event the job can emit, so an
// idle consumer never stalls the workers.
package precompute
