package tabular

import "errors"

var (
	// ErrEmptyData indicates that the resource contains no header row
	ErrEmptyData = errors.New("tabular: empty data source")

	// ErrSheetNotFound indicates that the addressed sheet or table does not exist
	ErrSheetNotFound = errors.New("tabular: sheet not found")

	// ErrUnsupportedFormat indicates that the content type cannot be read in the requested mode
	ErrUnsupportedFormat = errors.New("tabular: unsupported format")

	// ErrInvalidData indicates malformed input
	ErrInvalidData = errors.New("tabular: invalid data format")

	// ErrNoSource indicates that neither a path nor a reader was supplied
	ErrNoSource = errors.New("tabular: no path or data supplied")
)
