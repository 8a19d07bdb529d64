package extract

import "errors"

var (
	// ErrEmptyDocument is returned when an upload carries no usable text.
	ErrEmptyDocument = errors.New("document contains no text")
	// ErrUnsupportedType is returned when the sniffed content type is
	// neither PDF nor plain text.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrCorruptPDF is returned when pdfcpu cannot read the upload.
	ErrCorruptPDF = errors.New("pdf could not be read")
)
