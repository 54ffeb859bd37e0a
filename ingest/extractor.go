package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"tivuchprep-backend/models"
)

// PageText is one line of the page-text JSONL export produced by the PDF
// extraction step. Pages are 1-based and match the printed page numbers of
// the exam book.
type PageText struct {
	DocID string `json:"doc_id"`
	Page  int    `json:"page"`
	Text  string `json:"text"`
}

var (
	// Matches the heading form used for statutes in the book, e.g.
	// "חוק המתווכים במקרקעין, התשנ״ו–1996"
	lawTitleRe = regexp.MustCompile(`^(?:חוק|תקנות)\s+[^,]+,\s+התש[^\d]*–?\s*\d{4}`)

	// Matches a section heading at the start of a block, e.g. "סעיף 9(ב1)"
	sectionHeadRe = regexp.MustCompile(`^סעיף\s*(\d+[א-ת]?(?:\([א-ת0-9]+\))?)`)
)

// PageSHA computes the content hash used for page-level change detection.
func PageSHA(text string) string {
	return textSHA(text)
}

func textSHA(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ExtractBlocks splits one page of book text into indexed legal blocks.
// Blocks are paragraph-sized units separated by blank lines; each carries
// its character span within the page and a section hint used to scope
// vector search.
func ExtractBlocks(docID string, page int, text string) []models.LegalBlock {
	rawBlocks := strings.Split(text, "\n\n")

	var blocks []models.LegalBlock
	searchFrom := 0
	lawContext := ""

	for _, raw := range rawBlocks {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		// Track the most recent statute heading on the page so blocks
		// under it inherit the law name in their hint.
		if lawTitleRe.MatchString(trimmed) {
			lawContext = firstLine(trimmed)
		}

		start := strings.Index(text[searchFrom:], trimmed)
		if start >= 0 {
			start += searchFrom
			searchFrom = start + len(trimmed)
		} else {
			// Whitespace normalization can shift the span; fall back to
			// a fresh scan of the whole page.
			start = strings.Index(text, trimmed)
			if start < 0 {
				start = searchFrom
			}
		}

		block := models.LegalBlock{
			DocID:       docID,
			PageNumber:  page,
			BlockID:     fmt.Sprintf("p%d-b%02d", page, len(blocks)),
			Text:        trimmed,
			SectionHint: sectionHint(trimmed, lawContext),
			CharStart:   start,
			CharEnd:     start + len(trimmed),
		}
		blocks = append(blocks, block)
	}

	return blocks
}

// sectionHint derives the retrieval scope label for a block.
func sectionHint(text, lawContext string) string {
	line := firstLine(text)

	if lawTitleRe.MatchString(line) {
		return line
	}

	if m := sectionHeadRe.FindStringSubmatch(line); m != nil {
		if lawContext != "" {
			return fmt.Sprintf("%s §%s", lawContext, m[1])
		}
		return fmt.Sprintf("סעיף %s", m[1])
	}

	if lawContext != "" {
		return lawContext
	}

	if len([]rune(line)) <= 60 {
		return line
	}

	return "הספר"
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}
