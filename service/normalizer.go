package service

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"tivuchprep-backend/models"
)

// GenericReference is the fixed book-level placeholder returned when no
// better citation can be produced at all.
const GenericReference = "ראו: הספר"

var (
	legacyRe  = regexp.MustCompile(`פרק\s*(\d+)\s*:?`)
	pageRe    = regexp.MustCompile(`(?:עמ׳|עמ'|עמוד)\s*(\d+)`)
	sectionRe = regexp.MustCompile(`(?:סעיף|§)\s*(\d+[א-ת]?(?:\([^)]+\))?)`)
	// instructional boilerplate providers like to prepend
	boilerplateRe = regexp.MustCompile(`^(?:ראו|ראה|עיינו|עיין|תשובה|מקור|הפניה|reference|citation|answer)\s*[:\-]\s*`)
	spaceRe       = regexp.MustCompile(`\s+`)
	trailPunctRe  = regexp.MustCompile(`[.,;!?\s]+$`)
)

// disallowedCombo is a regulation+page pair that providers have historically
// returned for questions it cannot answer; such citations are rejected even
// when returned confidently.
type disallowedCombo struct {
	chapterID int
	page      int
}

// Normalizer parses raw generator output, converts legacy citations to the
// canonical sentence form, repairs out-of-range pages against the reference
// index, and rejects output without a recognizable law marker.
type Normalizer struct {
	index      *ReferenceIndex
	classifier *KeywordClassifier
	disallowed []disallowedCombo
}

// NewNormalizer creates a normalizer over the given index and classifier.
func NewNormalizer(index *ReferenceIndex, classifier *KeywordClassifier) *Normalizer {
	return &Normalizer{
		index:      index,
		classifier: classifier,
		disallowed: []disallowedCombo{
			// the written-order regulations opener, a recurring wrong answer
			{chapterID: 2, page: 22},
			// consumer-protection filler page providers default to
			{chapterID: 7, page: 74},
		},
	}
}

// Normalize turns raw generator output into the canonical citation sentence.
// It returns ErrValidationRejected when the output names no known law or hits
// the disallow list; the caller then uses the keyword fallback instead.
func (n *Normalizer) Normalize(raw, questionText string) (string, error) {
	cleaned := n.clean(raw)
	if cleaned == "" {
		return "", ErrValidationRejected
	}

	ref, err := n.parse(cleaned, questionText)
	if err != nil {
		return "", err
	}

	chapter := n.index.ChapterForLawTitle(ref.LawTitle)
	if chapter == nil {
		return "", ErrValidationRejected
	}

	for _, combo := range n.disallowed {
		if chapter.ID == combo.chapterID && ref.Page == combo.page {
			log.Printf("Rejected disallowed citation combination: chapter %d page %d", combo.chapterID, combo.page)
			return "", ErrValidationRejected
		}
	}
	if ref.Page > 0 && !chapter.HasPage(ref.Page) {
		repaired := n.index.NearestValidPage(chapter.ID, ref.Page)
		log.Printf("Corrected out-of-range page %d -> %d for chapter %d", ref.Page, repaired, chapter.ID)
		ref.Page = repaired
	}

	return ref.Display(), nil
}

// FormatMatch renders a classifier match as a canonical citation; pages are
// snapped to the chapter's valid set just like generator output.
func (n *Normalizer) FormatMatch(match *ClassifierMatch) string {
	chapter := n.index.ChapterByID(match.ChapterID)
	if chapter == nil {
		return GenericReference
	}
	page := match.Page
	if page > 0 && !chapter.HasPage(page) {
		page = n.index.NearestValidPage(chapter.ID, page)
	}
	return models.Reference{
		LawTitle: chapter.LawTitle,
		Section:  match.Section,
		Page:     page,
	}.Display()
}

// clean strips instructional boilerplate, markdown residue, redundant
// whitespace and duplicated trailing punctuation.
func (n *Normalizer) clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "`*\"״")
	s = boilerplateRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	s = trailPunctRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// parse resolves the cleaned string into a Reference. Legacy chapter+page
// tuples ("פרק 4: מקרקעין, עמוד 33") are converted through the index, with
// keyword rules keyed off the question text supplying the section when they
// can; everything else must name a known law to be accepted.
func (n *Normalizer) parse(cleaned, questionText string) (models.Reference, error) {
	page := 0
	if m := pageRe.FindStringSubmatch(cleaned); m != nil {
		page, _ = strconv.Atoi(m[1])
	}

	if m := legacyRe.FindStringSubmatch(cleaned); m != nil {
		chapterID, _ := strconv.Atoi(m[1])
		chapter := n.index.ChapterByID(chapterID)
		if chapter == nil {
			return models.Reference{}, ErrValidationRejected
		}
		return models.Reference{
			LawTitle: chapter.LawTitle,
			Section:  n.classifier.SectionFor(chapterID, questionText),
			Page:     page,
		}, nil
	}

	chapter := n.index.ChapterForLawTitle(cleaned)
	if chapter == nil {
		return models.Reference{}, ErrValidationRejected
	}

	section := ""
	if m := sectionRe.FindStringSubmatch(cleaned); m != nil {
		section = m[1]
	}

	return models.Reference{
		LawTitle: chapter.LawTitle,
		Section:  section,
		Page:     page,
	}, nil
}
