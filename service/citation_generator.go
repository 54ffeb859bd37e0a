package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tivuchprep-backend/models"
)

const (
	generatorMaxAttempts  = 3
	generatorFirstBackoff = time.Second
	contextBlockLimit     = 4
)

// CitationGenerator orchestrates the external generation providers as an
// explicit ordered fallback chain: each provider is tried in turn, with its
// own retry budget, and is side-effect free on failure. Adding or removing a
// provider is a change to the slice passed at construction.
type CitationGenerator struct {
	providers []CitationProvider
	retrieval *RetrievalClient
	docID     string
	sleep     func(time.Duration) // injectable for tests
}

// NewCitationGenerator creates a generator over the given provider chain.
// The retrieval client may be nil, in which case prompts carry no grounding
// blocks.
func NewCitationGenerator(providers []CitationProvider, retrieval *RetrievalClient, docID string) *CitationGenerator {
	return &CitationGenerator{
		providers: providers,
		retrieval: retrieval,
		docID:     docID,
		sleep:     time.Sleep,
	}
}

// Generate produces a raw citation string for the question, trying each
// provider in order. The returned string is untrusted and must be passed
// through the normalizer by the caller.
func (g *CitationGenerator) Generate(ctx context.Context, questionText, topicHint string) (string, error) {
	blocks := g.retrieveContext(ctx, questionText)
	prompt := g.buildPrompt(questionText, topicHint, blocks)

	var lastErr error = ErrNoProviderOutput
	for _, provider := range g.providers {
		raw, err := g.generateWithRetry(ctx, provider, prompt)
		if err != nil {
			log.Printf("Provider %s failed: %v. Trying next provider.", provider.Name(), err)
			lastErr = err
			continue
		}
		if strings.TrimSpace(raw) == InsufficientContextSentinel {
			log.Printf("Provider %s reported insufficient context. Trying next provider.", provider.Name())
			lastErr = ErrInsufficientContext
			continue
		}
		return raw, nil
	}

	return "", lastErr
}

// retrieveContext fetches grounding blocks, tolerating failure: a generator
// stage must still run with an empty context when retrieval is down.
func (g *CitationGenerator) retrieveContext(ctx context.Context, questionText string) []models.LegalBlock {
	if g.retrieval == nil {
		return nil
	}
	blocks, err := g.retrieval.Retrieve(ctx, questionText, g.docID, contextBlockLimit, "")
	if err != nil {
		log.Printf("Warning: failed to retrieve context: %v. Continuing with empty context.", err)
		return nil
	}
	return blocks
}

// generateWithRetry calls one provider with exponential backoff on transient
// errors. Terminal errors abort immediately.
func (g *CitationGenerator) generateWithRetry(ctx context.Context, provider CitationProvider, prompt string) (string, error) {
	var lastErr error
	backoff := generatorFirstBackoff
	for attempt := 0; attempt < generatorMaxAttempts; attempt++ {
		if attempt > 0 {
			g.sleep(backoff)
			backoff *= 2
		}

		raw, err := provider.Generate(ctx, prompt)
		if err == nil {
			return raw, nil
		}

		lastErr = err
		if !isTransient(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("provider %s failed after %d attempts: %w", provider.Name(), generatorMaxAttempts, lastErr)
}

// buildPrompt assembles the generation prompt. With grounding blocks the
// model must cite from them or emit the insufficient-context sentinel;
// without blocks it falls back to naming the governing law from the exam
// syllabus.
func (g *CitationGenerator) buildPrompt(questionText, topicHint string, blocks []models.LegalBlock) string {
	var contextText strings.Builder
	for _, block := range blocks {
		contextText.WriteString(fmt.Sprintf("[עמ׳ %d, %s] %s\n\n", block.PageNumber, block.SectionHint, block.Text))
	}

	hintLine := ""
	if topicHint != "" {
		hintLine = fmt.Sprintf("נושא משוער: %s\n", topicHint)
	}

	if contextText.Len() > 0 {
		return fmt.Sprintf(`אתה עוזר הכנה לבחינת רישוי המתווכים במקרקעין. לפני כל שאלה עליך לציין את המקור המדויק בספר ההכנה.

קטעים רלוונטיים מהספר:
%s
%sשאלה: %s

החזר שורה אחת בלבד בפורמט: ראו: <שם החוק או התקנות>, סעיף <מספר>, עמ׳ <מספר>
אם הקטעים שסופקו אינם מספיקים כדי לקבוע מקור, החזר בדיוק: %s
אל תוסיף הסברים, הערות או סימון Markdown.`,
			contextText.String(), hintLine, questionText, InsufficientContextSentinel)
	}

	return fmt.Sprintf(`אתה עוזר הכנה לבחינת רישוי המתווכים במקרקעין. עליך לציין את החוק או התקנות מתוכנית הבחינה שעליהם מבוססת השאלה.

%sשאלה: %s

החזר שורה אחת בלבד בפורמט: ראו: <שם החוק או התקנות>, סעיף <מספר>, עמ׳ <מספר>
אל תוסיף הסברים, הערות או סימון Markdown.`,
		hintLine, questionText)
}
