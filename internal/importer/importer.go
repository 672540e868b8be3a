// Package importer converts uploaded spreadsheet files into raw question
// rows. It deliberately knows nothing about exams: parsing stops at the row
// level and the service layer decides whether the rows form a valid question
// set.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFile indicates the uploaded file is not an xlsx workbook.
var ErrUnsupportedFile = errors.New("unsupported file type, expected an xlsx workbook")

// ErrNoWorksheet indicates the workbook contains no readable sheet.
var ErrNoWorksheet = errors.New("workbook has no worksheet")

// QuestionRow is one raw row as it appears in the uploaded sheet. Option
// cells may be empty; the question set builder enforces the four-option rule.
type QuestionRow struct {
	Question      string
	Option1       string
	Option2       string
	Option3       string
	Option4       string
	CorrectAnswer string
}

// OptionCells returns the non-empty option cells in fixed column order.
func (r QuestionRow) OptionCells() []string {
	options := make([]string, 0, 4)
	for _, cell := range []string{r.Option1, r.Option2, r.Option3, r.Option4} {
		if strings.TrimSpace(cell) != "" {
			options = append(options, cell)
		}
	}
	return options
}

// RowParser converts an uploaded file into question rows.
type RowParser interface {
	Parse(path string) ([]QuestionRow, error)
}

// XLSXParser reads question rows from the first worksheet of an xlsx file.
// The header row maps columns by name: question, option1..option4,
// correctAnswer (case-insensitive, underscores ignored).
type XLSXParser struct{}

// NewXLSXParser constructs the workbook parser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse opens the workbook at path and extracts its question rows. Rows that
// are entirely empty are skipped.
func (p *XLSXParser) Parse(path string) ([]QuestionRow, error) {
	kind, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect upload: %w", err)
	}
	if !kind.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet") {
		return nil, ErrUnsupportedFile
	}

	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	cells, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil
	}

	columns := headerIndex(cells[0])
	col := func(name string) int {
		if i, ok := columns[name]; ok {
			return i
		}
		return -1
	}

	rows := make([]QuestionRow, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := QuestionRow{
			Question:      cellAt(line, col("question")),
			Option1:       cellAt(line, col("option1")),
			Option2:       cellAt(line, col("option2")),
			Option3:       cellAt(line, col("option3")),
			Option4:       cellAt(line, col("option4")),
			CorrectAnswer: cellAt(line, col("correctanswer")),
		}
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "")
		if key != "" {
			columns[key] = i
		}
	}
	return columns
}

func cellAt(line []string, index int) string {
	if index < 0 || index >= len(line) {
		return ""
	}
	return strings.TrimSpace(line[index])
}

func isEmptyRow(row QuestionRow) bool {
	return row.Question == "" && row.CorrectAnswer == "" && len(row.OptionCells()) == 0
}
