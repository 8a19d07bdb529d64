package model

// Upload is one document as received from the transport, before
// extraction.
type Upload struct {
	Name string
	Data []byte
}
