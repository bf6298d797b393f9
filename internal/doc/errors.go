package doc

import "errors"

var (
	// ErrNotFound is returned when the document path does not resolve to an
	// existing file.
	ErrNotFound = errors.New("file not found")

	// ErrUnsupportedFormat is returned when no registered format claims the
	// file extension.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoText marks a document that tokenized to an empty stream. It is a
	// normal user-facing outcome; Tokenize itself never returns it.
	ErrNoText = errors.New("no text found in document")
)
