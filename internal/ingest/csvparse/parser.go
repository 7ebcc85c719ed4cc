// Package csvparse tokenizes delimited ranking exports into ordered rows of
// named fields.
package csvparse

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	defaultDelimiter = ','
	byteOrderMark    = "\uFEFF"
	minLines         = 2 // header + one data row
)

// Row is one data row. Values are addressed by header name; the header order
// of the source file is kept.
type Row struct {
	headers []string
	index   map[string]int
	values  []string
	// Line is the 1-based position of the row among data rows.
	Line int
}

// NewRow builds a Row from parallel header/value slices. Missing values read
// as "", surplus values are dropped.
func NewRow(headers, values []string, line int) Row {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return newRow(headers, index, values, line)
}

func newRow(headers []string, index map[string]int, values []string, line int) Row {
	vals := make([]string, len(headers))
	for i := range headers {
		if i < len(values) {
			vals[i] = strings.TrimSpace(values[i])
		}
	}
	return Row{headers: headers, index: index, values: vals, Line: line}
}

// Headers returns the header names in file order.
func (r Row) Headers() []string { return r.headers }

// Get returns the value stored under header h and whether the header exists.
func (r Row) Get(h string) (string, bool) {
	i, ok := r.index[h]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Value returns the value under h or "".
func (r Row) Value(h string) string {
	v, _ := r.Get(h)
	return v
}

// Parser reads CSV text. The zero value is not usable; call New.
type Parser struct {
	delimiter rune
	lazy      bool
}

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithDelimiter sets the field delimiter.
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		if d != 0 && d != '"' && d != '\n' && d != '\r' {
			p.delimiter = d
		}
	}
}

// WithStrictQuotes rejects bare quotes inside unquoted fields instead of
// keeping them as literal characters.
func WithStrictQuotes() Option {
	return func(p *Parser) {
		p.lazy = false
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{delimiter: defaultDelimiter, lazy: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes text into rows using the default parser.
func Parse(text string) ([]Row, error) {
	return New().Parse(text)
}

// ParseReader reads everything from r and tokenizes it.
func ParseReader(r io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read csv input")
	}
	return Parse(string(raw))
}

// Parse tokenizes text. Blank lines are ignored; the first non-blank line is
// the header. Fewer than two non-blank lines is a ParseError.
func (p *Parser) Parse(text string) ([]Row, error) {
	text = strings.TrimPrefix(text, byteOrderMark)
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = p.delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = p.lazy
	r.TrimLeadingSpace = true

	var (
		headers []string
		index   map[string]int
		rows    []Row
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, &ParseError{Line: line, Err: errors.Mark(err, ErrMalformed)}
		}
		if blank(rec) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(rec))
			for i, h := range rec {
				headers[i] = strings.TrimSpace(h)
			}
			index = make(map[string]int, len(headers))
			for i, h := range headers {
				if _, dup := index[h]; !dup {
					index[h] = i
				}
			}
			continue
		}
		rows = append(rows, newRow(headers, index, rec, len(rows)+1))
	}

	if len(rows)+1 < minLines {
		return nil, &ParseError{Err: ErrTooFewLines}
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
