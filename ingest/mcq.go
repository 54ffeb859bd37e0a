package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"tivuchprep-backend/models"

	openai "github.com/sashabaranov/go-openai"
)

const (
	mcqModel = openai.GPT4oMini

	// Blocks outside this range make poor question material: too short
	// to carry a rule, too long to anchor a single answer.
	mcqMinBlockChars = 150
	mcqMaxBlockChars = 1200
)

// ErrBlockUnsuitable is returned for blocks that should be skipped rather
// than sent to the model.
var ErrBlockUnsuitable = errors.New("block unsuitable for question generation")

// QuestionGenerator produces multiple-choice exam questions from legal
// blocks via the OpenAI chat API in JSON mode.
type QuestionGenerator struct {
	client *openai.Client
	model  string
}

// NewQuestionGenerator creates a question generator backed by the given client.
func NewQuestionGenerator(client *openai.Client) *QuestionGenerator {
	return &QuestionGenerator{
		client: client,
		model:  mcqModel,
	}
}

type mcqPayload struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Generate builds one multiple-choice question from a legal block. The
// "(ראו: ...)" reference is appended to the question text in code, never
// by the model, and the question is keyed to a hash of the block text so
// unchanged blocks keep their questions across re-ingests.
func (g *QuestionGenerator) Generate(ctx context.Context, block models.LegalBlock) (*models.GeneratedQuestion, error) {
	textLen := len([]rune(block.Text))
	if textLen < mcqMinBlockChars || textLen > mcqMaxBlockChars {
		return nil, ErrBlockUnsuitable
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: mcqSystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildMCQPrompt(block),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("question generation returned no choices")
	}

	var payload mcqPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse question JSON: %w", err)
	}

	if err := validatePayload(&payload); err != nil {
		return nil, err
	}

	refTitle := block.SectionHint
	if refTitle == "" {
		refTitle = "הספר"
	}
	stem := strings.TrimSpace(payload.Question)

	question := &models.GeneratedQuestion{
		DocID:          block.DocID,
		Page:           block.PageNumber,
		BlockID:        block.BlockID,
		Question:       fmt.Sprintf("%s (ראו: %s)", stem, refTitle),
		RefTitle:       refTitle,
		RefNote:        fmt.Sprintf("עמ׳ %d", block.PageNumber),
		Choices:        payload.Options,
		CorrectIndex:   payload.CorrectIndex,
		Explanation:    strings.TrimSpace(payload.Explanation),
		SourceBlockSHA: textSHA(block.Text),
	}

	return question, nil
}

func validatePayload(p *mcqPayload) error {
	if strings.TrimSpace(p.Question) == "" {
		return errors.New("generated question has empty stem")
	}
	if len(p.Options) != 4 {
		return fmt.Errorf("generated question has %d options, want 4", len(p.Options))
	}
	for i, opt := range p.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("generated question option %d is empty", i)
		}
	}
	if p.CorrectIndex < 0 || p.CorrectIndex > 3 {
		log.Printf("Rejecting generated question with correct_index=%d", p.CorrectIndex)
		return fmt.Errorf("correct_index %d out of range", p.CorrectIndex)
	}
	return nil
}

const mcqSystemPrompt = `אתה כותב שאלות לבחינת רישוי מתווכים במקרקעין בישראל. ` +
	`עליך להחזיר JSON בלבד במבנה: {"question": string, "options": [string, string, string, string], "correct_index": int, "explanation": string}. ` +
	`השאלה חייבת להיענות מתוך הקטע שסופק בלבד, ובדיוק אחת מארבע האפשרויות נכונה.`

func buildMCQPrompt(block models.LegalBlock) string {
	var b strings.Builder
	b.WriteString("כתוב שאלה אמריקאית אחת על סמך הקטע הבא מתוך ספר הבחינה")
	if block.SectionHint != "" {
		b.WriteString(" (")
		b.WriteString(block.SectionHint)
		b.WriteString(")")
	}
	b.WriteString(":\n\n")
	b.WriteString(block.Text)
	return b.String()
}
