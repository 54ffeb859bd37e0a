package models

// Chapter groups one law or regulation of the exam book together with its
// position in the printed volume. The valid-page set is hand-curated: pages
// that exist in the book but carry no citable content (separators, blank
// pages) are deliberately excluded.
type Chapter struct {
	ID         int          `json:"id"`
	LawTitle   string       `json:"law_title"`
	StartPage  int          `json:"start_page"`
	ValidPages map[int]bool `json:"valid_pages"`
}

// HasPage reports whether page belongs to the chapter's valid-page set.
func (c *Chapter) HasPage(page int) bool {
	return c.ValidPages[page]
}
