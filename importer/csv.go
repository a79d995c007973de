// Package importer turns the master vocabulary CSV into graph data, either
// rows merged into Neo4j or a snapshot file for the in-memory index.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "vocab-graph/errors"
	"vocab-graph/web/types"
)

// CSV column headers after normalization.
const (
	ColWord     = "Word"
	ColPOS      = "Parts of Speech"
	ColKoDef    = "Korean Definition"
	ColEnDef    = "English Definition"
	ColExample  = "Example Sentence (Simple Complete Sentence)"
	ColSynonyms = "Synonyms/Antonyms"
	ColCEFR     = "CEFR/Grade"
)

// DefaultPOS is used when a row has no part of speech.
const DefaultPOS = "Unknown"

// NormalizeHeader flattens multi-line spreadsheet headers: newlines become
// spaces and the result is trimmed.
func NormalizeHeader(header string) string {
	header = strings.ReplaceAll(header, "\r\n", " ")
	header = strings.ReplaceAll(header, "\n", " ")
	return strings.TrimSpace(header)
}

// ReadFile parses the CSV at path.
func ReadFile(path string) ([]types.WordRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapErrorf(apperrors.ErrNotFound, "open %s: %v", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads every data row. Rows whose Word cell is blank are kept with an
// empty Word so that callers can count them as skipped.
func Parse(r io.Reader) ([]types.WordRow, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []types.WordRow{}, nil
		}
		return nil, fmt.Errorf("%w: read header: %v", apperrors.ErrInvalidInput, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := NormalizeHeader(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	cell := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := []types.WordRow{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("%w: read row %d: %v", apperrors.ErrInvalidInput, len(rows)+2, err)
		}

		row := types.WordRow{
			Word:     cell(record, ColWord),
			POS:      cell(record, ColPOS),
			KoDef:    cell(record, ColKoDef),
			EnDef:    cell(record, ColEnDef),
			Example:  cell(record, ColExample),
			Synonyms: SplitSynonyms(cell(record, ColSynonyms)),
			CEFR:     cell(record, ColCEFR),
		}
		if row.POS == "" {
			row.POS = DefaultPOS
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SplitSynonyms splits a comma separated cell, dropping blanks.
func SplitSynonyms(cell string) []string {
	synonyms := []string{}
	for _, part := range strings.Split(cell, ",") {
		if s := strings.TrimSpace(part); s != "" {
			synonyms = append(synonyms, s)
		}
	}
	return synonyms
}
