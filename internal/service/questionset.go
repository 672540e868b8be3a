package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/campushq/exam-portal-api/internal/importer"
	"github.com/campushq/exam-portal-api/internal/models"
)

// ErrMalformedQuestion indicates a row without exactly four options or with
// an empty question text.
var ErrMalformedQuestion = errors.New("each question must have exactly 4 options")

// ErrEmptyQuestionSet indicates the upload contained no usable rows.
var ErrEmptyQuestionSet = errors.New("no valid questions found in the uploaded file")

// ErrCorrectAnswerMissing indicates a row whose correct answer does not
// appear among its options.
var ErrCorrectAnswerMissing = errors.New("correct answer must be one of the options")

// BuildQuestionSet validates raw spreadsheet rows into an immutable, ordered
// question set. Row order is preserved; positions are assigned sequentially.
// The function is pure: it touches no storage and mutates nothing it is given.
func BuildQuestionSet(rows []importer.QuestionRow) ([]models.ExamQuestion, error) {
	questions := make([]models.ExamQuestion, 0, len(rows))

	for i, row := range rows {
		if strings.TrimSpace(row.Question) == "" {
			return nil, fmt.Errorf("row %d: question text is empty: %w", i+1, ErrMalformedQuestion)
		}

		options := row.OptionCells()
		if len(options) != 4 {
			return nil, fmt.Errorf("row %d: found %d options: %w", i+1, len(options), ErrMalformedQuestion)
		}

		if !containsOption(options, row.CorrectAnswer) {
			return nil, fmt.Errorf("row %d: %w", i+1, ErrCorrectAnswerMissing)
		}

		questions = append(questions, models.ExamQuestion{
			Position:      i,
			QuestionText:  row.Question,
			Options:       datatypes.NewJSONSlice(options),
			CorrectAnswer: row.CorrectAnswer,
		})
	}

	if len(questions) == 0 {
		return nil, ErrEmptyQuestionSet
	}

	return questions, nil
}

func containsOption(options []string, answer string) bool {
	for _, option := range options {
		if option == answer {
			return true
		}
	}
	return false
}
