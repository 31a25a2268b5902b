// Package iaga reads the header block of IAGA-2002 geomagnetic data files.
package iaga

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	errs "gindownload/pkg/errors"
)

// ValueColumn is the 0-based column where header values start
const ValueColumn = 24

// DataTypePrefix marks the header line carrying the data type
const DataTypePrefix = " Data Type"

// Field is one "keyword value" header line
type Field struct {
	Key   string
	Value string
}

// Header holds the parsed header block of an IAGA-2002 file
type Header struct {
	Fields   []Field
	Comments []string

	// DataTypeLine is the raw " Data Type" line, if one was seen
	DataTypeLine string
}

// Get returns the value for key, matched case-insensitively
func (h *Header) Get(key string) string {
	for _, f := range h.Fields {
		if strings.EqualFold(f.Key, key) {
			return f.Value
		}
	}
	return ""
}

// ScanHeader reads header lines from r up to the DATE column heading. A
// stream without one is read to EOF.
func ScanHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "DATE") {
			break
		}
		if strings.HasPrefix(line, DataTypePrefix) && h.DataTypeLine == "" {
			h.DataTypeLine = line
		}

		body := strings.TrimSpace(strings.TrimSuffix(strings.TrimRight(line, " "), "|"))
		switch {
		case body == "":
		case strings.HasPrefix(body, "#"):
			h.Comments = append(h.Comments, strings.TrimSpace(strings.TrimPrefix(body, "#")))
		case len(line) > ValueColumn:
			h.Fields = append(h.Fields, Field{
				Key:   strings.TrimSpace(line[:ValueColumn]),
				Value: strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line[ValueColumn:]), "|")),
			})
		default:
			h.Fields = append(h.Fields, Field{Key: body})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	return h, nil
}

// Designator returns the lowercased character at ValueColumn of the
// " Data Type" line
func (h *Header) Designator() (rune, error) {
	if h.DataTypeLine == "" {
		return 0, errs.Newf(errs.ErrorTypeDataType, "designator", "", "no %q line in header", strings.TrimSpace(DataTypePrefix))
	}
	if len(h.DataTypeLine) <= ValueColumn {
		return 0, errs.Newf(errs.ErrorTypePrecondition, "designator", "",
			"data type line is %d characters, need more than %d", len(h.DataTypeLine), ValueColumn)
	}

	d := rune(h.DataTypeLine[ValueColumn])
	if d > unicode.MaxASCII || !unicode.IsLetter(d) {
		return 0, errs.Newf(errs.ErrorTypeDataType, "designator", "", "designator %q is not a letter", d)
	}
	return unicode.ToLower(d), nil
}

// ReadHeader parses the header of the file at path
func ReadHeader(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ScanHeader(f)
}

// DataTypeDesignator returns the data type designator of the file at path.
// Every failure is a typed error carrying path.
func DataTypeDesignator(path string) (rune, error) {
	h, err := ReadHeader(path)
	if err != nil {
		return 0, errs.New(errs.ErrorTypeDataType, "designator", path, err)
	}
	d, err := h.Designator()
	if err != nil {
		if e, ok := err.(*errs.Error); ok {
			e.Path = path
		}
		return 0, err
	}
	return d, nil
}
