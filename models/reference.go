package models

import (
	"fmt"
	"strings"
)

// Reference is a pointer into the exam book: law title, optional section,
// optional subsection, optional page. It is transient; only the rendered
// string is ever shown or cached.
type Reference struct {
	LawTitle   string `json:"law_title"`
	Section    string `json:"section,omitempty"`
	Subsection string `json:"subsection,omitempty"`
	Page       int    `json:"page,omitempty"` // 0 means unknown
}

// Display renders the canonical citation sentence, e.g.
// "ראו: חוק המתווכים במקרקעין, התשנ״ו-1996, סעיף 9(ב1), עמ׳ 14".
func (r Reference) Display() string {
	var b strings.Builder
	b.WriteString("ראו: ")
	b.WriteString(r.LawTitle)
	if r.Section != "" {
		b.WriteString(", סעיף ")
		b.WriteString(r.Section)
		if r.Subsection != "" {
			b.WriteString(fmt.Sprintf("(%s)", r.Subsection))
		}
	}
	if r.Page > 0 {
		b.WriteString(fmt.Sprintf(", עמ׳ %d", r.Page))
	}
	return b.String()
}

// CitationRequest is the immutable input to the resolution pipeline.
type CitationRequest struct {
	QuestionText string `json:"question_text"`
	TopicHint    string `json:"topic_hint,omitempty"`
}
