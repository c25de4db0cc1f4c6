package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrNotConfigured is returned when no model is wired in.
var ErrNotConfigured = errors.New("ai interpretation not configured")

// ErrEmptyResponse means the provider answered without any choice.
var ErrEmptyResponse = errors.New("ai returned no content")
