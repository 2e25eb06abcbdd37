// Package interact turns pointer, keyboard and container events into filter
// changes, selection changes and layout triggers.
//
// A [Controller] owns the current query, the live [layout.Scene], the
// selection and the focus shape. It drives a [Surface] (zoom, fit-to-view,
// reheat) and reports selection changes through [Callbacks].
//
// # Triggers
//
// Rebuilds arrive through two channels with different latency policies:
//
//   - immediate: container resize and node/edge type filters rebuild inline
//   - debounced: search text rebuilds once typing pauses (300ms by default)
//
// Spread-all repositions every node at once and requests a fit-to-view
// after a short delay so the relaxation step can settle first. A newer
// spread or any filter change cancels a pending fit; only the last request
// ever fires.
//
// # Concurrency
//
// Delayed work runs on timer goroutines. Every event, timed or not, is
// serialized under one mutex, and callbacks run after the mutex is released
// so hosts may call back into the controller. [Controller.Close] stops all
// pending timers; later events are ignored.
package interact
