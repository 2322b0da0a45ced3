package watermark

import "errors"

// Error kinds surfaced by Apply. Callers match with errors.Is; the wrapped
// message carries the underlying cause.
var (
	// ErrInvalidInput means the supplied bytes are not a well-formed PDF.
	ErrInvalidInput = errors.New("input is not a valid PDF document")

	// ErrEncrypted means the document requires a password. Fatal for the
	// operation; no attempt is made to guess or strip passwords.
	ErrEncrypted = errors.New("document is encrypted")

	// ErrFontUnavailable means every remote font source failed or timed out.
	ErrFontUnavailable = errors.New("no font source available")

	// ErrFontEmbed means fetched font bytes could not be embedded.
	ErrFontEmbed = errors.New("font could not be embedded")

	// ErrSerialization means the final save step failed.
	ErrSerialization = errors.New("output document could not be serialized")
)
