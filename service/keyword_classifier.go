package service

import "strings"

// ClassifierMatch is the classifier's best guess for a question: always a
// chapter, and where the matching rule is fine-grained enough, a section and
// page within it.
type ClassifierMatch struct {
	ChapterID int
	Section   string
	Page      int
}

// classifierRule maps any of its keywords to a chapter, optionally pinning a
// section and page. Matching is plain substring over the question text.
type classifierRule struct {
	keywords  []string
	chapterID int
	section   string
	page      int
}

// KeywordClassifier resolves a question to a chapter by an ordered rule
// list: the first rule with a matching keyword wins, so ordering encodes
// priority when keywords overlap across chapters ("מס רכישה" must be tried
// before the bare "מקרקעין" resolves to the general real-estate chapter).
// It doubles as the last-resort citation source when every generator fails.
type KeywordClassifier struct {
	rules []classifierRule
}

// NewKeywordClassifier builds the rule set for the exam book.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		rules: []classifierRule{
			// taxation: compound phrases before anything containing "מקרקעין"
			{keywords: []string{"מס רכישה"}, chapterID: 5, section: "9", page: 55},
			{keywords: []string{"מס שבח"}, chapterID: 5, section: "6", page: 54},
			{keywords: []string{"מיסוי מקרקעין"}, chapterID: 5, page: 53},

			// brokers law, fine rules first
			{keywords: []string{"בלעדיות"}, chapterID: 1, section: "9(ב1)", page: 14},
			{keywords: []string{"דמי תיווך", "עמלת תיווך"}, chapterID: 1, section: "14", page: 16},
			{keywords: []string{"חובת הגינות", "גילוי נאות"}, chapterID: 1, section: "8", page: 12},
			{keywords: []string{"רישיון תיווך", "בחינת רישוי"}, chapterID: 1, section: "2", page: 8},
			{keywords: []string{"הזמנה בכתב", "טופס הזמנה"}, chapterID: 2, section: "1", page: 21},

			{keywords: []string{"זכרון דברים", "הצעה וקיבול", "הפרת חוזה"}, chapterID: 3, page: 27},
			{keywords: []string{"דירה חדשה", "תקופת בדק", "קבלן"}, chapterID: 6, page: 65},
			{keywords: []string{"דייר מוגן", "דמי מפתח"}, chapterID: 9, page: 91},
			{keywords: []string{"היתר בנייה", "שימוש חורג", "תכנון ובנייה", "תכנון והבנייה"}, chapterID: 8, page: 79},
			{keywords: []string{"הטעיה", "הגנת הצרכן"}, chapterID: 7, page: 73},
			{keywords: []string{"הלבנת הון"}, chapterID: 10, page: 97},

			// general real-estate law, fine rules first
			{keywords: []string{"בית משותף", "בתים משותפים"}, chapterID: 4, section: "52", page: 46},
			{keywords: []string{"הערת אזהרה"}, chapterID: 4, section: "126", page: 48},
			{keywords: []string{"חוזה"}, chapterID: 3, page: 27},
			{keywords: []string{"מקרקעין"}, chapterID: 4, page: 33},

			// catch-all for the profession itself, last
			{keywords: []string{"מתווך", "תיווך"}, chapterID: 1, page: 7},
		},
	}
}

// Classify returns the first matching rule for the question, or nil when no
// rule matches (the engine then relies on generator output alone).
func (kc *KeywordClassifier) Classify(questionText string) *ClassifierMatch {
	text := strings.ToLower(questionText)
	for _, rule := range kc.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return &ClassifierMatch{
					ChapterID: rule.chapterID,
					Section:   rule.section,
					Page:      rule.page,
				}
			}
		}
	}
	return nil
}

// SectionFor returns the section pinned by the first fine rule of the given
// chapter that matches the question, or "" when none does. The normalizer
// uses it to enrich legacy chapter+page citations.
func (kc *KeywordClassifier) SectionFor(chapterID int, questionText string) string {
	text := strings.ToLower(questionText)
	for _, rule := range kc.rules {
		if rule.chapterID != chapterID || rule.section == "" {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.section
			}
		}
	}
	return ""
}
