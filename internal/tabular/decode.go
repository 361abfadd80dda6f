// Package tabular decodes semicolon-delimited open-data CSV into header-keyed
// rows and checks them against column contracts.
package tabular

import (
	"bufio"
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
)

const bom = "\ufeff"

// Row is one data line keyed by header name.
type Row struct {
	header []string
	values map[string]string
}

// Get returns the trimmed value of column name. ok is false when the header
// has no such column.
func (r Row) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value is Get without the presence flag.
func (r Row) Value(name string) string {
	return r.values[name]
}

// Columns returns the header names in file order.
func (r Row) Columns() []string {
	return append([]string(nil), r.header...)
}

// NewRow builds a row from a header and aligned values; missing trailing
// values become "". Used by tests and callers that assemble rows by hand.
func NewRow(header []string, values []string) Row {
	m := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(values) {
			m[h] = strings.TrimSpace(values[i])
		} else {
			m[h] = ""
		}
	}
	return Row{header: header, values: m}
}

// maxLineBytes bounds a single line; the station metadata table has the
// longest lines and stays far below this.
const maxLineBytes = 1 << 20

// Decode splits text into rows. Lines are split on ";" as-is, quotes
// included. The first non-empty line is the header; blank lines are skipped
// and short lines are padded with "".
func Decode(text string) ([]Row, error) {
	if strings.TrimSpace(strings.TrimPrefix(text, bom)) == "" {
		return nil, domain.CsvParsef("CSV content is empty")
	}

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var header []string
	var rows []Row
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(strings.TrimPrefix(line, bom)) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if header == nil {
			header = normalizeHeader(fields)
			if isBlank(header) {
				return nil, domain.CsvParsef("CSV header row is empty")
			}
			continue
		}
		rows = append(rows, NewRow(header, fields))
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.Error{Kind: domain.KindCsvParse, Msg: "read CSV line", Err: err}
	}

	if header == nil {
		return nil, domain.CsvParsef("CSV content is empty")
	}
	return rows, nil
}

func normalizeHeader(rec []string) []string {
	header := make([]string, len(rec))
	for i, h := range rec {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimSpace(strings.TrimPrefix(h, bom))
		}
		header[i] = h
	}
	return header
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// DecodeText turns raw bytes into a string. UTF-8 is tried first; if that
// would yield U+FFFD replacement characters the bytes are read as ISO-8859-1.
func DecodeText(b []byte) (string, error) {
	if utf8.Valid(b) && !bytes.Contains(b, []byte("\ufffd")) {
		return string(b), nil
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", &domain.Error{Kind: domain.KindCsvParse, Msg: "decode Latin-1 content", Err: err}
	}
	return string(out), nil
}
