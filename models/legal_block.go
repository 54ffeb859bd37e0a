package models

// LegalBlock is one text block extracted from a page of the exam book.
type LegalBlock struct {
	DocID       string  `json:"doc_id"`
	PageNumber  int     `json:"page_number"`
	BlockID     string  `json:"block_id"` // e.g. "p12-b03"
	Text        string  `json:"text"`
	SectionHint string  `json:"section_hint,omitempty"`
	CharStart   int     `json:"char_start"`
	CharEnd     int     `json:"char_end"`
	Distance    float64 `json:"distance,omitempty"` // vector similarity distance, search results only
}
