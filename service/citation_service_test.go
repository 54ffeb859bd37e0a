package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tivuchprep-backend/models"
)

func TestResolveCitationUsesProviderOutput(t *testing.T) {
	provider := &stubProvider{
		name:      "primary",
		responses: []string{"ראו: חוק המתווכים במקרקעין, התשנ״ו-1996, סעיף 9(ב1), עמ׳ 14"},
		errs:      []error{nil},
	}
	s := NewCitationService(WithCitationGenerator(newTestGenerator(provider)))

	got := s.ResolveCitation(context.Background(), models.CitationRequest{
		QuestionText: "מהי תקופת הבלעדיות המרבית למכירת דירה?",
	})
	assert.Equal(t, "ראו: חוק המתווכים במקרקעין, התשנ״ו-1996, סעיף 9(ב1), עמ׳ 14", got)
}

func TestResolveCitationIsIdempotent(t *testing.T) {
	provider := &stubProvider{
		name:      "primary",
		responses: []string{"ראו: חוק המקרקעין, התשכ״ט-1969, עמ׳ 33"},
		errs:      []error{nil},
	}
	s := NewCitationService(WithCitationGenerator(newTestGenerator(provider)))

	req := models.CitationRequest{QuestionText: "מהי עסקה במקרקעין?"}
	first := s.ResolveCitation(context.Background(), req)
	second := s.ResolveCitation(context.Background(), req)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.calls, "repeated questions must be answered from the session cache")
}

func TestResolveCitationKeywordFallback(t *testing.T) {
	terminal := newProviderError("primary", http.StatusUnauthorized, "bad key")
	provider := &stubProvider{name: "primary", responses: []string{""}, errs: []error{terminal}}
	s := NewCitationService(WithCitationGenerator(newTestGenerator(provider)))

	got := s.ResolveCitation(context.Background(), models.CitationRequest{
		QuestionText: "מהי תקופת הבלעדיות המרבית למכירת דירה?",
	})
	assert.Contains(t, got, "המתווכים")
	assert.Contains(t, got, "סעיף 9(ב1)")
	assert.Contains(t, got, "עמ׳ 14")
}

func TestResolveCitationMalformedOutputFallsBack(t *testing.T) {
	provider := &stubProvider{name: "primary", responses: []string{"אין לי תשובה"}, errs: []error{nil}}
	s := NewCitationService(WithCitationGenerator(newTestGenerator(provider)))

	got := s.ResolveCitation(context.Background(), models.CitationRequest{
		QuestionText: "שאלה על דמי תיווך",
	})
	assert.Contains(t, got, "המתווכים")
	assert.Contains(t, got, "סעיף 14")
}

func TestResolveCitationTotalFailureStaysNonEmpty(t *testing.T) {
	terminal := newProviderError("primary", http.StatusUnauthorized, "bad key")
	provider := &stubProvider{name: "primary", responses: []string{""}, errs: []error{terminal}}
	s := NewCitationService(WithCitationGenerator(newTestGenerator(provider)))

	// no keyword rule matches either: the engine must still answer
	got := s.ResolveCitation(context.Background(), models.CitationRequest{
		QuestionText: "מה בירת צרפת?",
	})
	require.NotEmpty(t, got)
	assert.Equal(t, GenericReference, got)
}

func TestResolveCitationWithoutGenerator(t *testing.T) {
	s := NewCitationService()

	got := s.ResolveCitation(context.Background(), models.CitationRequest{
		QuestionText: "כמה עולה מס רכישה?",
	})
	assert.Contains(t, got, "מיסוי מקרקעין")
	assert.Contains(t, got, "עמ׳ 55")
}

func TestResultCache(t *testing.T) {
	c := NewResultCache()

	_, ok := c.Get("q")
	assert.False(t, ok)

	c.Put("q", "ראו: הספר")
	got, ok := c.Get("q")
	assert.True(t, ok)
	assert.Equal(t, "ראו: הספר", got)
	assert.Equal(t, 1, c.Len())
}
