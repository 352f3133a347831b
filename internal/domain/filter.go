package domain

// FilterRequest is one inbound category-filter call, validated then discarded.
// Sequence is an opaque client correlation value echoed back so the client can
// discard responses superseded by a newer selection.
type FilterRequest struct {
	CategoryID int    `json:"category"`
	Token      string `json:"nonce"`
	Sequence   string `json:"sequence,omitempty"`
}

// FilterResult is the success payload of the filter endpoint.
type FilterResult struct {
	HTML         string `json:"html"`
	Count        int    `json:"count"`
	CategoryName string `json:"category_name"`
	Sequence     string `json:"sequence,omitempty"`
}
