// Package extractive implements the local, deterministic summarizer used when
// no external provider is configured or the provider fails.
//
// The pipeline runs leaves first:
//
//	Segmenter -> Analyze -> Score -> Select -> Assemble
//
// Every step is a pure function of its input. The only process-wide state is
// the stop word set, which is never mutated, so a Summarizer is safe for
// concurrent use without locking.
package extractive
