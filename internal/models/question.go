package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/utils"
	"gorm.io/gorm"
)

type Question struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	Label       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Answer      string    `gorm:"type:text;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// BeforeCreate hook to assign the opaque question token
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if strings.TrimSpace(q.Label) == "" || q.Answer == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

// Ordinal returns the number embedded in the label, e.g. 5 for "Question 5".
func (q *Question) Ordinal() (int, bool) {
	return utils.LabelOrdinal(q.Label)
}

// IsCorrect compares a candidate answer case-insensitively. Whitespace is
// significant.
func (q *Question) IsCorrect(candidate string) bool {
	return strings.ToLower(candidate) == strings.ToLower(q.Answer)
}

func (Question) TableName() string {
	return "questions"
}

// SortQuestionsByLabel orders questions by label ordinal in place. Labels
// without a number go last and keep their relative order.
func SortQuestionsByLabel(questions []Question) {
	labels := make([]string, len(questions))
	for i := range questions {
		labels[i] = questions[i].Label
	}
	order := utils.OrderByOrdinal(labels)

	sorted := make([]Question, len(questions))
	for i, idx := range order {
		sorted[i] = questions[idx]
	}
	copy(questions, sorted)
}

// FinalQuestion returns the question with the highest label ordinal. When no
// label carries a number, the last question in store order is final.
func FinalQuestion(questions []Question) (*Question, bool) {
	if len(questions) == 0 {
		return nil, false
	}

	final := -1
	best := 0
	for i := range questions {
		n, ok := questions[i].Ordinal()
		if !ok {
			continue
		}
		if final == -1 || n > best {
			final, best = i, n
		}
	}
	if final == -1 {
		final = len(questions) - 1
	}
	return &questions[final], true
}
