package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tivuchprep-backend/models"

	openai "github.com/sashabaranov/go-openai"
)

func newTestQuestionGenerator(t *testing.T, calls *atomic.Int32, payload mcqPayload) *QuestionGenerator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		content, err := json.Marshal(payload)
		require.NoError(t, err)
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{
					Role:    openai.ChatMessageRoleAssistant,
					Content: string(content),
				}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewQuestionGenerator(openai.NewClientWithConfig(cfg))
}

func suitableBlock() models.LegalBlock {
	return models.LegalBlock{
		DocID:       "part1-2020",
		PageNumber:  14,
		BlockID:     "p14-b01",
		Text:        strings.Repeat("לא יעסוק אדם בתיווך במקרקעין אלא אם כן הוא בעל רישיון. ", 5),
		SectionHint: "חוק המתווכים במקרקעין, התשנ״ו–1996 §9(ב1)",
	}
}

func TestGenerateComposesReferenceIntoQuestion(t *testing.T) {
	var calls atomic.Int32
	gen := newTestQuestionGenerator(t, &calls, mcqPayload{
		Question:     "מהי תקופת הבלעדיות המרבית בדירת מגורים?",
		Options:      []string{"חודש", "שלושה חודשים", "שישה חודשים", "שנה"},
		CorrectIndex: 2,
		Explanation:  "ראו את הסעיף המצוטט.",
	})

	block := suitableBlock()
	q, err := gen.Generate(context.Background(), block)
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())

	// The reference is appended to the stem in code; ref_title stays bare.
	assert.Equal(t,
		"מהי תקופת הבלעדיות המרבית בדירת מגורים? (ראו: "+block.SectionHint+")",
		q.Question)
	assert.Equal(t, block.SectionHint, q.RefTitle)
	assert.Equal(t, "עמ׳ 14", q.RefNote)
	assert.Equal(t, 2, q.CorrectIndex)
	assert.Len(t, q.Choices, 4)
}

func TestGenerateKeysQuestionToBlockContentHash(t *testing.T) {
	var calls atomic.Int32
	gen := newTestQuestionGenerator(t, &calls, mcqPayload{
		Question:     "שאלה",
		Options:      []string{"א", "ב", "ג", "ד"},
		CorrectIndex: 0,
	})

	block := suitableBlock()
	q, err := gen.Generate(context.Background(), block)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(block.Text))
	assert.Equal(t, hex.EncodeToString(sum[:]), q.SourceBlockSHA,
		"the question key must follow the block text, not the page")
}

func TestGenerateFallsBackToGenericReference(t *testing.T) {
	var calls atomic.Int32
	gen := newTestQuestionGenerator(t, &calls, mcqPayload{
		Question:     "שאלה",
		Options:      []string{"א", "ב", "ג", "ד"},
		CorrectIndex: 1,
	})

	block := suitableBlock()
	block.SectionHint = ""
	q, err := gen.Generate(context.Background(), block)
	require.NoError(t, err)

	assert.Equal(t, "שאלה (ראו: הספר)", q.Question)
	assert.Equal(t, "הספר", q.RefTitle)
}

func TestGenerateSkipsUnsuitableBlocks(t *testing.T) {
	var calls atomic.Int32
	gen := newTestQuestionGenerator(t, &calls, mcqPayload{})

	short := suitableBlock()
	short.Text = "קצר מדי"
	_, err := gen.Generate(context.Background(), short)
	assert.ErrorIs(t, err, ErrBlockUnsuitable)

	long := suitableBlock()
	long.Text = strings.Repeat("א", mcqMaxBlockChars+1)
	_, err = gen.Generate(context.Background(), long)
	assert.ErrorIs(t, err, ErrBlockUnsuitable)

	assert.Zero(t, calls.Load(), "unsuitable blocks must not reach the model")
}

func TestValidatePayload(t *testing.T) {
	valid := mcqPayload{
		Question:     "שאלה",
		Options:      []string{"א", "ב", "ג", "ד"},
		CorrectIndex: 3,
	}
	assert.NoError(t, validatePayload(&valid))

	tests := []struct {
		name   string
		mutate func(*mcqPayload)
	}{
		{"empty stem", func(p *mcqPayload) { p.Question = "  " }},
		{"three options", func(p *mcqPayload) { p.Options = p.Options[:3] }},
		{"blank option", func(p *mcqPayload) { p.Options[2] = "" }},
		{"index too high", func(p *mcqPayload) { p.CorrectIndex = 4 }},
		{"negative index", func(p *mcqPayload) { p.CorrectIndex = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			p.Options = append([]string(nil), valid.Options...)
			tt.mutate(&p)
			assert.Error(t, validatePayload(&p))
		})
	}
}
