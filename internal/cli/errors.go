package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Repository errors
	ErrRepoNotFound  = "REPO_NOT_FOUND"
	ErrRepoExists    = "REPO_EXISTS"
	ErrConfigInvalid = "CONFIG_INVALID"

	// Index errors
	ErrTableNotFound = "TABLE_NOT_FOUND"
	ErrRowOutOfRange = "ROW_OUT_OF_RANGE"

	// Page errors
	ErrPageNotFound = "PAGE_NOT_FOUND"

	// Lookup errors
	ErrLookupFailed    = "LOOKUP_FAILED"
	ErrLookupNoMatch   = "LOOKUP_NO_MATCH"
	ErrLookupCancelled = "LOOKUP_CANCELLED"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnRowSkipped       = "ROW_SKIPPED"
	WarnPageMissing      = "PAGE_MISSING"
	WarnCacheUnavailable = "CACHE_UNAVAILABLE"
)
