package dto

// CreateReceiptRequest carries the filename of an uploaded receipt.
// The filename encodes everything the matcher works from.
type CreateReceiptRequest struct {
	Filename string `json:"filename"`
}
