// Package csvimport reads catalog spreadsheets exported as CSV and checks
// each row against a list of column rules before anything is written.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// utf8BOM is stripped from the start of files saved by spreadsheet tools
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodingSample is how much of the file is checked for valid UTF-8
const encodingSample = 4096

// Parser reads a CSV file with a header row
type Parser struct {
	delimiter rune
	maxRows   int
	reader    *csv.Reader
	columns   []string
	index     map[string]int
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter. Turkish locale exports often use ';'.
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// WithMaxRows caps the number of data rows. Zero means no limit.
func WithMaxRows(n int) ParserOption {
	return func(p *Parser) {
		p.maxRows = n
	}
}

// NewParser prepares r for reading. It strips a UTF-8 byte order mark and
// rejects empty or non UTF-8 input.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		index:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReaderSize(r, encodingSample)
	if head, err := buf.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = buf.Discard(len(utf8BOM))
	}

	sample, err := buf.Peek(encodingSample)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(strings.TrimSpace(string(sample))) == 0 {
		return nil, ErrEmptyFile
	}
	if !validUTF8Prefix(sample, len(sample) == encodingSample) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// validUTF8Prefix checks a sample, ignoring a rune cut off at its end
func validUTF8Prefix(b []byte, truncated bool) bool {
	if truncated {
		for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
			if utf8.RuneStart(b[i]) {
				if !utf8.FullRune(b[i:]) {
					b = b[:i]
				}
				break
			}
		}
	}
	return utf8.Valid(b)
}

// ReadHeader reads the header row. Column names are matched case-insensitively,
// and spaces or dashes are read as underscores, so "Unit Price" names unit_price.
func (p *Parser) ReadHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	p.columns = make([]string, len(record))
	for i, raw := range record {
		name := NormalizeColumn(raw)
		p.columns[i] = name
		if name == "" {
			continue
		}
		if _, dup := p.index[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		p.index[name] = i
	}
	if len(p.index) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// NormalizeColumn maps a header cell to its canonical column name
func NormalizeColumn(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

// Columns returns the normalized header, in file order
func (p *Parser) Columns() []string {
	return p.columns
}

// Missing returns the entries of required that the header does not contain
func (p *Parser) Missing(required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := p.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Row is one data line of the file
type Row struct {
	// Line is where the row starts in the file, counting from 1
	Line   int
	values map[string]string
}

// Get returns the trimmed value of column, or "" when the row lacks it
func (r Row) Get(column string) string {
	return r.values[column]
}

func (r Row) blank() bool {
	for _, v := range r.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next data row, or io.EOF after the last one
func (p *Parser) Next() (Row, error) {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	if err != nil {
		return Row{}, fmt.Errorf("read row: %w", err)
	}

	line, _ := p.reader.FieldPos(0)
	row := Row{Line: line, values: make(map[string]string, len(p.index))}
	for name, i := range p.index {
		if i < len(record) {
			row.values[name] = strings.TrimSpace(record[i])
		}
	}
	return row, nil
}

// ReadAll returns every remaining non-blank row. It fails with ErrTooManyRows
// once the row limit is passed and with ErrNoDataRows when nothing is left.
func (p *Parser) ReadAll() ([]Row, error) {
	var rows []Row
	for {
		row, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if row.blank() {
			continue
		}
		if p.maxRows > 0 && len(rows) == p.maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, p.maxRows)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}
	return rows, nil
}
