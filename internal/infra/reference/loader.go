// Package reference loads the bloom reference table from CSV or XLSX.
package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
)

// FileSource reads the table from a local file. The format is chosen by extension.
type FileSource struct {
	path   string
	logger *slog.Logger
}

var _ chatbot.ReferenceSource = (*FileSource)(nil)

// NewFileSource builds a source for path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: path, logger: logger.With("component", "reference")}
}

// Load returns every data row. A missing file yields an empty table.
func (s *FileSource) Load(ctx context.Context) ([]chatbot.ReferenceRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.path) == "" {
		s.logger.Info("no reference table configured")
		return []chatbot.ReferenceRow{}, nil
	}

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info("reference table not found, continuing with empty table", "path", s.path)
		return []chatbot.ReferenceRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open reference table: %w", err)
	}
	defer file.Close()

	var records [][]string
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".xlsx":
		records, err = readXLSX(file)
	default:
		records, err = readCSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("parse reference table %s: %w", s.path, err)
	}

	rows := toRows(records)
	s.logger.Info("reference table loaded", "path", s.path, "rows", len(rows))
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(f.GetSheetName(0))
}

// toRows maps records to rows by header name. Unknown columns are ignored and
// short records leave the remaining fields blank.
func toRows(records [][]string) []chatbot.ReferenceRow {
	if len(records) == 0 {
		return []chatbot.ReferenceRow{}
	}
	index := map[string]int{}
	for i, name := range records[0] {
		index[normalizeHeader(name)] = i
	}
	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]chatbot.ReferenceRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := chatbot.ReferenceRow{
			Species:    field(record, "species"),
			Country:    field(record, "country"),
			BloomStart: field(record, "bloom_start"),
			BloomEnd:   field(record, "bloom_end"),
			Notes:      field(record, "notes"),
		}
		if row == (chatbot.ReferenceRow{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}
