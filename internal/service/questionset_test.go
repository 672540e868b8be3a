package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campushq/exam-portal-api/internal/importer"
)

func validRow(question, answer string) importer.QuestionRow {
	return importer.QuestionRow{
		Question:      question,
		Option1:       "Paris",
		Option2:       "Rome",
		Option3:       "Berlin",
		Option4:       "Madrid",
		CorrectAnswer: answer,
	}
}

func TestBuildQuestionSetPreservesOrder(t *testing.T) {
	rows := []importer.QuestionRow{
		validRow("Capital of France?", "Paris"),
		validRow("Capital of Italy?", "Rome"),
	}

	questions, err := BuildQuestionSet(rows)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, "Capital of France?", questions[0].QuestionText)
	require.Equal(t, 0, questions[0].Position)
	require.Equal(t, "Capital of Italy?", questions[1].QuestionText)
	require.Equal(t, 1, questions[1].Position)
	require.Equal(t, []string{"Paris", "Rome", "Berlin", "Madrid"}, []string(questions[0].Options))
}

func TestBuildQuestionSetRejectsMissingOption(t *testing.T) {
	row := validRow("Capital of France?", "Paris")
	row.Option3 = ""

	_, err := BuildQuestionSet([]importer.QuestionRow{row})
	require.ErrorIs(t, err, ErrMalformedQuestion)
}

func TestBuildQuestionSetRejectsEmptyQuestionText(t *testing.T) {
	row := validRow("   ", "Paris")

	_, err := BuildQuestionSet([]importer.QuestionRow{row})
	require.ErrorIs(t, err, ErrMalformedQuestion)
}

func TestBuildQuestionSetRejectsForeignCorrectAnswer(t *testing.T) {
	row := validRow("Capital of France?", "London")

	_, err := BuildQuestionSet([]importer.QuestionRow{row})
	require.ErrorIs(t, err, ErrCorrectAnswerMissing)
}

func TestBuildQuestionSetRejectsEmptyInput(t *testing.T) {
	_, err := BuildQuestionSet(nil)
	require.ErrorIs(t, err, ErrEmptyQuestionSet)
}

func TestBuildQuestionSetSkipsNothingCollectsInColumnOrder(t *testing.T) {
	row := importer.QuestionRow{
		Question:      "Pick one",
		Option1:       "a",
		Option2:       "",
		Option3:       "b",
		Option4:       "c",
		CorrectAnswer: "b",
	}
	// Only three non-empty option cells: malformed regardless of which
	// column is blank.
	_, err := BuildQuestionSet([]importer.QuestionRow{row})
	require.ErrorIs(t, err, ErrMalformedQuestion)
}
