// Package engine owns talent allocation for one class.
//
// The spend history is the only mutable state: an ordered log of
// point-grant events. Point distributions, summaries and the talent order
// are projections of that log and are recomputed, never edited in place.
// Increment and Decrement validate against the gating rules before
// appending or removing an event; refusals come back as a Decision with a
// Rejection rather than an error, since they are routine UI outcomes.
//
// An Engine is not safe for concurrent use.
package engine
