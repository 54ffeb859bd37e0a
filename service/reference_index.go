package service

import (
	"strings"

	"tivuchprep-backend/models"
)

// ReferenceIndex is the static table of the exam book: one chapter per law or
// regulation, with its start page and the set of citable pages. The table is
// hand-curated against the 2020 printed edition ("part1-2020"); there is no
// runtime check tying it to the actual document, so it must be updated by
// hand when the book changes.
type ReferenceIndex struct {
	chapters map[int]*models.Chapter
	// markers maps distinctive title substrings to chapter ids, ordered so
	// that specific titles win over the shared word "מקרקעין".
	markers []titleMarker
}

type titleMarker struct {
	substr    string
	chapterID int
}

func pageRange(from, to int, gaps ...int) map[int]bool {
	pages := make(map[int]bool, to-from+1)
	for p := from; p <= to; p++ {
		pages[p] = true
	}
	for _, g := range gaps {
		delete(pages, g)
	}
	return pages
}

// NewReferenceIndex builds the index for the 2020 edition of the exam book.
func NewReferenceIndex() *ReferenceIndex {
	chapters := []*models.Chapter{
		{ID: 1, LawTitle: "חוק המתווכים במקרקעין, התשנ״ו-1996", StartPage: 7, ValidPages: pageRange(7, 20, 19)},
		{ID: 2, LawTitle: "תקנות המתווכים במקרקעין (פרטי הזמנה בכתב), התשנ״ז-1997", StartPage: 21, ValidPages: pageRange(21, 26, 23)},
		{ID: 3, LawTitle: "חוק החוזים (חלק כללי), התשל״ג-1973", StartPage: 27, ValidPages: pageRange(27, 32, 30)},
		{ID: 4, LawTitle: "חוק המקרקעין, התשכ״ט-1969", StartPage: 33, ValidPages: pageRange(33, 52, 41, 42)},
		{ID: 5, LawTitle: "חוק מיסוי מקרקעין (שבח ורכישה), התשכ״ג-1963", StartPage: 53, ValidPages: pageRange(53, 64, 58)},
		{ID: 6, LawTitle: "חוק המכר (דירות), התשל״ג-1973", StartPage: 65, ValidPages: pageRange(65, 72)},
		{ID: 7, LawTitle: "חוק הגנת הצרכן, התשמ״א-1981", StartPage: 73, ValidPages: pageRange(73, 78, 75)},
		{ID: 8, LawTitle: "חוק התכנון והבנייה, התשכ״ה-1965", StartPage: 79, ValidPages: pageRange(79, 90, 85, 86)},
		{ID: 9, LawTitle: "חוק הגנת הדייר [נוסח משולב], התשל״ב-1972", StartPage: 91, ValidPages: pageRange(91, 96)},
		{ID: 10, LawTitle: "חוק איסור הלבנת הון, התש״ס-2000", StartPage: 97, ValidPages: pageRange(97, 100)},
	}

	byID := make(map[int]*models.Chapter, len(chapters))
	for _, c := range chapters {
		byID[c.ID] = c
	}

	return &ReferenceIndex{
		chapters: byID,
		markers: []titleMarker{
			// regulations before the parent law, compound titles before "מקרקעין"
			{"תקנות המתווכים", 2},
			{"הזמנה בכתב", 2},
			{"מתווכים", 1},
			{"תיווך", 1},
			{"מיסוי מקרקעין", 5},
			{"מס שבח", 5},
			{"מס רכישה", 5},
			{"חוק החוזים", 3},
			{"חוזים", 3},
			{"המכר (דירות)", 6},
			{"מכר דירות", 6},
			{"הגנת הצרכן", 7},
			{"תכנון והבנייה", 8},
			{"תכנון ובנייה", 8},
			{"הגנת הדייר", 9},
			{"הלבנת הון", 10},
			{"חוק המקרקעין", 4},
			{"מקרקעין", 4},
		},
	}
}

// ChapterByID returns the chapter with the given id, or nil.
func (ri *ReferenceIndex) ChapterByID(id int) *models.Chapter {
	return ri.chapters[id]
}

// Chapters returns all chapters, keyed by id.
func (ri *ReferenceIndex) Chapters() map[int]*models.Chapter {
	return ri.chapters
}

// ValidPage reports whether page is citable within the given chapter.
func (ri *ReferenceIndex) ValidPage(chapterID, page int) bool {
	c := ri.chapters[chapterID]
	if c == nil {
		return false
	}
	return c.HasPage(page)
}

// NearestValidPage snaps page to the closest citable page of the chapter.
// When two valid pages are equidistant, the lower (earlier) page wins, so
// repair is deterministic. Unknown chapters yield 0.
func (ri *ReferenceIndex) NearestValidPage(chapterID, page int) int {
	c := ri.chapters[chapterID]
	if c == nil {
		return 0
	}
	if c.HasPage(page) {
		return page
	}

	best := 0
	bestDist := -1
	for p := range c.ValidPages {
		dist := p - page
		if dist < 0 {
			dist = -dist
		}
		if bestDist == -1 || dist < bestDist || (dist == bestDist && p < best) {
			best = p
			bestDist = dist
		}
	}
	if best == 0 {
		return c.StartPage
	}
	return best
}

// ChapterForLawTitle finds the chapter whose law the given text names.
// The text may be a full citation sentence; matching is by distinctive
// title substrings, most specific first.
func (ri *ReferenceIndex) ChapterForLawTitle(text string) *models.Chapter {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for _, m := range ri.markers {
		if strings.Contains(text, m.substr) {
			return ri.chapters[m.chapterID]
		}
	}
	return nil
}
