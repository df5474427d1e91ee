package memo

import "errors"

// Preconditions checked before any generation call, in this order.
var (
	ErrInputMissing      = errors.New("no document or website URL supplied")
	ErrExtractionEmpty   = errors.New("no meaningful text extracted from the provided sources")
	ErrCredentialMissing = errors.New("API key not found in the secret store")
)

// ErrUnknownSection is returned when editing a section name that is not part
// of the memo.
var ErrUnknownSection = errors.New("unknown section")

// FailureKind tags why a section holds an error string instead of content.
type FailureKind string

const (
	// FailureNetwork means no response arrived (dial, TLS, timeout).
	FailureNetwork FailureKind = "network"
	// FailureGeneration means the provider answered with an error or an
	// unusable payload.
	FailureGeneration FailureKind = "generation"
)
