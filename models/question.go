package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Choices is the MCQ option list, stored as JSONB.
type Choices []string

// Value implements driver.Valuer for JSONB
func (c Choices) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *Choices) Scan(value interface{}) error {
	if value == nil {
		*c = make(Choices, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*c = make(Choices, 0)
		return nil
	}

	if len(bytes) == 0 {
		*c = make(Choices, 0)
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// GeneratedQuestion is one machine-generated multiple-choice question tied to
// the source block it was generated from. The question text already carries
// the "(ראו: ...)" reference composed in code, never by the model.
type GeneratedQuestion struct {
	ID             uuid.UUID `json:"id"`
	DocID          string    `json:"doc_id"`
	Page           int       `json:"page"`
	BlockID        string    `json:"block_id"`
	Question       string    `json:"question"`
	RefTitle       string    `json:"ref_title"`
	RefNote        string    `json:"ref_note"` // "עמ׳ N", kept for display compatibility
	Choices        Choices   `json:"choices"`
	CorrectIndex   int       `json:"correct_index"`
	Explanation    string    `json:"explanation,omitempty"`
	SourceBlockSHA string    `json:"source_block_sha"`
	CreatedAt      time.Time `json:"created_at"`
}
