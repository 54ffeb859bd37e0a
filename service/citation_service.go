package service

import (
	"context"
	"log"

	"golang.org/x/sync/singleflight"

	"tivuchprep-backend/models"
)

// CitationService resolves a free-text exam question to a single displayable
// citation into the exam book. It never fails from the caller's point of
// view: when every stage breaks down it degrades to a vaguer citation rather
// than an error.
type CitationService struct {
	generator  *CitationGenerator
	classifier *KeywordClassifier
	normalizer *Normalizer
	index      *ReferenceIndex
	cache      *ResultCache
	inflight   singleflight.Group
}

// CitationServiceOption is a functional option for CitationService
type CitationServiceOption func(*CitationService)

// WithCitationGenerator sets the provider chain
func WithCitationGenerator(g *CitationGenerator) CitationServiceOption {
	return func(s *CitationService) {
		s.generator = g
	}
}

// WithKeywordClassifier sets the keyword classifier
func WithKeywordClassifier(kc *KeywordClassifier) CitationServiceOption {
	return func(s *CitationService) {
		s.classifier = kc
	}
}

// WithNormalizer sets the format normalizer
func WithNormalizer(n *Normalizer) CitationServiceOption {
	return func(s *CitationService) {
		s.normalizer = n
	}
}

// WithReferenceIndex sets the reference index
func WithReferenceIndex(ri *ReferenceIndex) CitationServiceOption {
	return func(s *CitationService) {
		s.index = ri
	}
}

// WithResultCache sets the session result cache
func WithResultCache(c *ResultCache) CitationServiceOption {
	return func(s *CitationService) {
		s.cache = c
	}
}

// NewCitationService creates a new citation service. Components not supplied
// via options get working defaults, except the generator, which may stay nil
// (the service then answers from the classifier alone).
func NewCitationService(opts ...CitationServiceOption) *CitationService {
	s := &CitationService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.index == nil {
		s.index = NewReferenceIndex()
	}
	if s.classifier == nil {
		s.classifier = NewKeywordClassifier()
	}
	if s.normalizer == nil {
		s.normalizer = NewNormalizer(s.index, s.classifier)
	}
	if s.cache == nil {
		s.cache = NewResultCache()
	}
	return s
}

// ResolveCitation returns the citation for the question, short-circuiting on
// the session cache. Identical concurrent questions share one in-flight
// resolution instead of hitting the providers redundantly.
func (s *CitationService) ResolveCitation(ctx context.Context, req models.CitationRequest) string {
	if cached, ok := s.cache.Get(req.QuestionText); ok {
		return cached
	}

	result, _, _ := s.inflight.Do(req.QuestionText, func() (interface{}, error) {
		if cached, ok := s.cache.Get(req.QuestionText); ok {
			return cached, nil
		}
		citation := s.resolve(ctx, req)
		s.cache.Put(req.QuestionText, citation)
		return citation, nil
	})

	return result.(string)
}

// resolve runs the fallback chain: provider output cross-checked against the
// keyword hint and normalized, then the keyword fallback, then the generic
// book-level reference.
func (s *CitationService) resolve(ctx context.Context, req models.CitationRequest) string {
	hint := s.classifier.Classify(req.QuestionText)

	if s.generator != nil {
		raw, err := s.generator.Generate(ctx, req.QuestionText, req.TopicHint)
		if err == nil {
			normalized, nerr := s.normalizer.Normalize(raw, req.QuestionText)
			if nerr == nil {
				s.crossValidate(normalized, hint, req.QuestionText)
				return normalized
			}
			log.Printf("Generator output rejected (%v), falling back to keyword classifier", nerr)
		} else {
			log.Printf("All providers failed (%v), falling back to keyword classifier", err)
		}
	}

	return s.keywordFallback(hint)
}

// crossValidate compares the chapter implied by the normalized provider
// output with the keyword hint. A well-formed provider citation wins even on
// disagreement, since it is assumed more specific than the coarse keyword
// rule; the disagreement is only logged. This is a known heuristic: a
// wrong-chapter citation that passes the marker check is accepted.
func (s *CitationService) crossValidate(normalized string, hint *ClassifierMatch, questionText string) {
	if hint == nil {
		return
	}
	providerChapter := s.index.ChapterForLawTitle(normalized)
	if providerChapter != nil && providerChapter.ID != hint.ChapterID {
		log.Printf("Provider citation (chapter %d) disagrees with keyword hint (chapter %d) for question %q; keeping provider output",
			providerChapter.ID, hint.ChapterID, questionText)
	}
}

// keywordFallback formats the classifier's best guess, or the fixed generic
// reference when no rule matched.
func (s *CitationService) keywordFallback(hint *ClassifierMatch) string {
	if hint == nil {
		return GenericReference
	}
	return s.normalizer.FormatMatch(hint)
}
