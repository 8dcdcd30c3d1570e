package domain

import "errors"

// Domain errors.
var (
	// ErrUnsupportedPlatform is returned when a URL does not match any
	// supported platform pattern.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrExtractionFailed is returned when the external extractor fails
	// for any reason, including network failures.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrFormatUnavailable is returned when the requested format_id is
	// not offered by the extraction source.
	ErrFormatUnavailable = errors.New("requested format is not available")

	// ErrNoOutput is returned when a completed download leaves no
	// unambiguous media file in the scratch directory.
	ErrNoOutput = errors.New("no output produced")

	// ErrLogStore is returned when the download log cannot be read.
	ErrLogStore = errors.New("download log unavailable")
)

// ExtractError wraps an extractor failure with the URL and operation
// that produced it.
type ExtractError struct {
	URL string
	Op  string
	Err error
}

func (e *ExtractError) Error() string {
	return e.Op + " [" + e.URL + "]: " + e.Err.Error()
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// NewExtractError creates a new ExtractError.
func NewExtractError(url, op string, err error) *ExtractError {
	return &ExtractError{
		URL: url,
		Op:  op,
		Err: err,
	}
}
