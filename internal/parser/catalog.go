package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/me/groupsched/pkg/model"
)

// Catalog columns, by position: id, name, mode, duration, defect rate,
// reference yield. The first row is a header.
const (
	colID = iota
	colName
	colMode
	colDuration
	colDefectRate
	colReferenceYield
)

const minCatalogColumns = colDuration + 1

// SkippedRow reports a catalog line that was dropped.
type SkippedRow struct {
	Line   int
	Reason string
}

// ParseCatalogCSV reads a task catalog. Malformed rows are skipped and
// reported rather than failing the whole catalog.
func ParseCatalogCSV(text string) ([]model.Task, []SkippedRow, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, errors.New("catalog is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog header: %w", err)
	}
	if len(header) < minCatalogColumns {
		return nil, nil, fmt.Errorf("catalog header has %d columns, want at least %d", len(header), minCatalogColumns)
	}
	width := len(header)

	var (
		tasks   []model.Task
		skipped []SkippedRow
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped = append(skipped, SkippedRow{Line: perr.Line, Reason: perr.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("read catalog: %w", err)
		}
		line, _ := r.FieldPos(0)
		if len(rec) > width {
			skipped = append(skipped, SkippedRow{Line: line, Reason: fmt.Sprintf("expected %d fields, saw %d", width, len(rec))})
			continue
		}
		task, err := catalogRow(rec)
		if err != nil {
			skipped = append(skipped, SkippedRow{Line: line, Reason: err.Error()})
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, skipped, nil
}

func catalogRow(rec []string) (model.Task, error) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}
	if len(rec) < minCatalogColumns {
		return model.Task{}, fmt.Errorf("expected at least %d fields, saw %d", minCatalogColumns, len(rec))
	}
	id := field(colID)
	if id == "" {
		return model.Task{}, errors.New("missing id")
	}

	duration, err := strconv.ParseFloat(field(colDuration), 64)
	if err != nil {
		return model.Task{}, fmt.Errorf("duration %q: %w", field(colDuration), err)
	}
	defect, err := optionalFloat(field(colDefectRate))
	if err != nil {
		return model.Task{}, fmt.Errorf("defect rate %q: %w", field(colDefectRate), err)
	}
	yield, err := optionalFloat(field(colReferenceYield))
	if err != nil {
		return model.Task{}, fmt.Errorf("reference yield %q: %w", field(colReferenceYield), err)
	}

	return model.Task{
		ID:             model.TaskID(id),
		Name:           field(colName),
		Mode:           field(colMode),
		Duration:       duration,
		DefectRate:     defect,
		ReferenceYield: yield,
	}, nil
}

func optionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}
