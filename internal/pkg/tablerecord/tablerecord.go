// Package tablerecord turns rendered table text into records by resolving
// columns from header labels instead of positions.
package tablerecord

import (
	"fmt"
	"strings"
)

// Column maps a record field to the header labels that may carry it.
// Labels are matched as case-insensitive substrings, first header wins.
type Column struct {
	Field    string
	Headers  []string
	Optional bool
}

type Mapping []Column

type Record map[string]string

func (r Record) Get(field string) string {
	return r[field]
}

// Resolve returns the header index of every field. Optional fields that
// match no header get -1; a required one is an error.
func (m Mapping) Resolve(headers []string) (map[string]int, error) {
	normalized := make([]string, len(headers))
	for i, header := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(header))
	}

	indexes := make(map[string]int, len(m))
	for _, column := range m {
		index := findHeader(normalized, column.Headers)
		if index < 0 && !column.Optional {
			return nil, fmt.Errorf("no header matches %q for field %s in %q", column.Headers, column.Field, headers)
		}
		indexes[column.Field] = index
	}
	return indexes, nil
}

// Records maps each row to a record. Cells are trimmed and short rows
// leave the missing fields empty.
func (m Mapping) Records(headers []string, rows [][]string) ([]Record, error) {
	indexes, err := m.Resolve(headers)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, cells := range rows {
		record := make(Record, len(m))
		for field, index := range indexes {
			if index >= 0 && index < len(cells) {
				record[field] = strings.TrimSpace(cells[index])
			} else {
				record[field] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// Positional builds a mapping that reads fields by column order, for tables
// whose header labels are not stable.
func Positional(fields ...string) func(rows [][]string) []Record {
	return func(rows [][]string) []Record {
		records := make([]Record, 0, len(rows))
		for _, cells := range rows {
			record := make(Record, len(fields))
			for i, field := range fields {
				if i < len(cells) {
					record[field] = strings.TrimSpace(cells[i])
				}
			}
			records = append(records, record)
		}
		return records
	}
}

func findHeader(normalized []string, labels []string) int {
	for i, header := range normalized {
		for _, label := range labels {
			if strings.Contains(header, strings.ToLower(label)) {
				return i
			}
		}
	}
	return -1
}
