package library

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"cognicard/internal/config"
	"cognicard/internal/domain"
	librarySvc "cognicard/internal/domain/services/library"
)

// Header names recognized when detecting the column mapping
var (
	frontHeaders = []string{"front", "question", "term", "word", "prompt"}
	backHeaders  = []string{"back", "answer", "definition", "meaning", "translation"}
)

// cardDraft is one row that passed validation and is ready to insert
type cardDraft struct {
	row   int
	front string
	back  string
}

// parsedImport is the outcome of reading a CSV before anything is written
type parsedImport struct {
	mapping librarySvc.ColumnMapping
	drafts  []cardDraft
	errors  []librarySvc.ImportError
	summary librarySvc.ImportSummary
}

// parseCardCSV reads csvData into card drafts using the requested or detected mapping.
// Malformed CSV and oversized files fail the whole import; bad rows are reported per row.
func parseCardCSV(csvData io.Reader, req *librarySvc.ImportCSVRequest) (*parsedImport, error) {
	limited := &io.LimitedReader{R: csvData, N: config.MaxImportBytes + 1}

	reader := csv.NewReader(limited)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &parsedImport{errors: []librarySvc.ImportError{}}

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: CSV file is empty", domain.ErrValidation)
	}
	if err != nil {
		return nil, csvError(err)
	}
	first = stripBOM(first)

	mapping, err := resolveMapping(first, req)
	if err != nil {
		return nil, err
	}
	result.mapping = mapping

	handle := func(record []string, line int) {
		result.summary.TotalRows++
		if isBlank(record) {
			result.summary.Skipped++
			return
		}

		front, back := field(record, mapping.FrontColumn), field(record, mapping.BackColumn)
		switch {
		case front == "" && back == "":
			result.addError(line, "front and back are empty")
		case front == "":
			result.addError(line, "front is empty")
		case back == "":
			result.addError(line, "back is empty")
		case utf8.RuneCountInString(front) > config.MaxCardSideLength:
			result.addError(line, fmt.Sprintf("front exceeds %d characters", config.MaxCardSideLength))
		case utf8.RuneCountInString(back) > config.MaxCardSideLength:
			result.addError(line, fmt.Sprintf("back exceeds %d characters", config.MaxCardSideLength))
		default:
			result.drafts = append(result.drafts, cardDraft{row: line, front: front, back: back})
		}
	}

	if !mapping.HasHeader {
		handle(first, 1)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if limited.N <= 0 {
				break
			}
			return nil, csvError(err)
		}
		if result.summary.TotalRows >= config.MaxImportRows {
			return nil, fmt.Errorf("%w: CSV has more than %d rows", domain.ErrValidation, config.MaxImportRows)
		}
		line, _ := reader.FieldPos(0)
		handle(record, line)
	}

	if limited.N <= 0 {
		return nil, fmt.Errorf("%w: CSV exceeds %d bytes", domain.ErrValidation, config.MaxImportBytes)
	}

	result.summary.Created = len(result.drafts)
	return result, nil
}

func (p *parsedImport) addError(line int, msg string) {
	p.summary.Failed++
	p.errors = append(p.errors, librarySvc.ImportError{Row: line, Error: msg})
}

// resolveMapping picks the front/back columns and whether the first row is a header.
//
// Explicit indexes win. Otherwise the first row is checked for known header names
// (front/question/term/word, back/answer/definition/meaning); if none match, the
// first two columns are used and the first row is data unless the caller said otherwise.
func resolveMapping(first []string, req *librarySvc.ImportCSVRequest) (librarySvc.ColumnMapping, error) {
	detectedFront, detectedBack := findHeader(first, frontHeaders), findHeader(first, backHeaders)
	headerDetected := detectedFront >= 0 || detectedBack >= 0

	mapping := librarySvc.ColumnMapping{FrontColumn: 0, BackColumn: 1, HasHeader: headerDetected}
	if req.HasHeader != nil {
		mapping.HasHeader = *req.HasHeader
	}

	if mapping.HasHeader && headerDetected {
		if detectedFront >= 0 {
			mapping.FrontColumn = detectedFront
		}
		if detectedBack >= 0 {
			mapping.BackColumn = detectedBack
		}
		// Only one side named: take the first other column for the remaining side
		if detectedFront < 0 {
			mapping.FrontColumn = firstOther(len(first), mapping.BackColumn)
		}
		if detectedBack < 0 {
			mapping.BackColumn = firstOther(len(first), mapping.FrontColumn)
		}
	}

	if req.FrontColumn != nil {
		mapping.FrontColumn = *req.FrontColumn
	}
	if req.BackColumn != nil {
		mapping.BackColumn = *req.BackColumn
	}

	switch {
	case mapping.FrontColumn < 0 || mapping.BackColumn < 0:
		return mapping, fmt.Errorf("%w: column indexes cannot be negative", domain.ErrValidation)
	case mapping.FrontColumn == mapping.BackColumn:
		return mapping, fmt.Errorf("%w: front and back must be different columns", domain.ErrValidation)
	}

	return mapping, nil
}

func findHeader(row []string, names []string) int {
	for i, cell := range row {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, name := range names {
			if cell == name {
				return i
			}
		}
	}
	return -1
}

func firstOther(width, taken int) int {
	for i := 0; i < width; i++ {
		if i != taken {
			return i
		}
	}
	return taken + 1
}

func field(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func stripBOM(record []string) []string {
	if len(record) > 0 {
		record[0] = strings.TrimPrefix(record[0], "\ufeff")
	}
	return record
}

func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: malformed CSV at line %d: %v", domain.ErrValidation, parseErr.Line, parseErr.Err)
	}
	return fmt.Errorf("read CSV: %w", err)
}
