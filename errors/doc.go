// Package errors provides standardized error handling patterns for binlog.
//
// # Overview
//
// The errors package implements a three-class error classification system:
// Transient (the caller may retry the failed call), Invalid (bad input or
// configuration, non-retriable), and Fatal (unrecoverable, stop processing).
//
// Classification drives the recovery rules of the stream reader: a short
// read of a growing log file is Transient (the same call succeeds once the
// writer catches up), while a truncated metadata entry is Invalid and
// poisons only the current frame.
//
// # Quick Start
//
// Use standard error variables for known conditions:
//
//	if free < n {
//	    return errors.ErrQueueFull
//	}
//
// Wrap errors with component context:
//
//	if err := dec.Err(); err != nil {
//	    return errors.WrapInvalid(err, "EventStream", "NextEvent", "decode event source")
//	}
//
// Check classification for retry decisions:
//
//	if _, err := es.NextEvent(); err != nil {
//	    if errors.IsTransient(err) {
//	        // the stream may grow; retry the call later
//	    }
//	}
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// The Wrap family of functions applies this pattern while attaching the
// classification, which is preserved through errors.Is / errors.As chains.
package errors
