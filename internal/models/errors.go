package models

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned for empty query text, before any I/O happens.
var ErrInvalidQuery = errors.New("query must not be empty")

// IngestionError reports an extraction or chunking failure for one document.
// Directory ingestion collects these instead of aborting the batch.
type IngestionError struct {
	Path string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingest %s: %v", e.Path, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// NotFoundError means a path recorded in the vector index could not be read
// from storage. It signals index/storage divergence and is never swallowed.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %s not found in storage: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// RefinementParseError means the LLM's structured-list response failed
// validation. Raw carries the unmodified model output for diagnosis.
type RefinementParseError struct {
	Raw    string
	Reason string
}

func (e *RefinementParseError) Error() string {
	return fmt.Sprintf("refinement response rejected: %s", e.Reason)
}

// UpstreamError wraps a failure of a collaborator (embedding gateway, vector
// index or LLM). Operations are idempotent, so callers may retry.
type UpstreamError struct {
	Component string
	Err       error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Component, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
