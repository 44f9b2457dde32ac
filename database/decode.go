package db

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// Format is an input or output file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const (
	extCSV  = ".csv"
	extJSON = ".json"
)

// DetectFormat maps a file path to a Format by its extension, ignoring case.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case extCSV:
		return FormatCSV, nil
	case extJSON:
		return FormatJSON, nil
	default:
		return "", newError(KindUnsupportedFormat, "detect format",
			"expected a .csv or .json file", nil).withPath(path)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeCSV reads a header row followed by data rows. Every cell is text.
// A file with no rows at all, or only a header, yields no records.
func DecodeCSV(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, newError(KindDecode, "decode csv", "reading header", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, newError(KindDecode, "decode csv", "", err)
		}
		// Header-only input imports nothing, so its names are never checked.
		if records == nil {
			if err := validateColumnNames(header); err != nil {
				return nil, err
			}
		}
		rec := Record{
			Keys:   header,
			Values: make([]Value, len(row)),
		}
		for i, cell := range row {
			rec.Values[i] = Text(cell)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeJSON reads either a single object or an array of objects. Object key
// order is preserved as it appears in the input.
func DecodeJSON(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, newError(KindDecode, "decode json", "", jsonCause(err))
	}

	var records []Record
	switch tok {
	case json.Delim('{'):
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			tok, err := dec.Token()
			if err != nil {
				return nil, newError(KindDecode, "decode json", "", jsonCause(err))
			}
			if tok != json.Delim('{') {
				return nil, newError(KindInvalidInputShape, "decode json",
					fmt.Sprintf("array element %d is not an object", i), nil)
			}
			rec, err := decodeObject(dec)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if _, err := dec.Token(); err != nil {
			return nil, newError(KindDecode, "decode json", "", jsonCause(err))
		}
	default:
		return nil, newError(KindInvalidInputShape, "decode json",
			fmt.Sprintf("top-level value must be an object or an array of objects, got %s", describeToken(tok)), nil)
	}

	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, newError(KindDecode, "decode json", "", jsonCause(err))
	}
	return records, nil
}

// decodeObject reads the members of an object whose opening brace has
// already been consumed.
func decodeObject(dec *json.Decoder) (Record, error) {
	var rec Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Record{}, newError(KindDecode, "decode json", "", jsonCause(err))
		}
		key, ok := tok.(string)
		if !ok {
			return Record{}, newError(KindDecode, "decode json", "object key is not a string", nil)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Record{}, newError(KindDecode, "decode json", "", jsonCause(err))
		}
		v, err := valueFromJSON(raw)
		if err != nil {
			return Record{}, newError(KindDecode, "decode json", "key "+key, err)
		}
		rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return Record{}, newError(KindDecode, "decode json", "", jsonCause(err))
	}
	return rec, nil
}

// valueFromJSON maps one JSON value onto a cell. Booleans become 1/0 and
// nested arrays or objects are kept as compact JSON text.
func valueFromJSON(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}, errors.New("empty value")
	}
	switch raw[0] {
	case 'n':
		return Null(), nil
	case 't':
		return Integer(1), nil
	case 'f':
		return Integer(0), nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return Text(s), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{}, err
		}
		return Text(buf.String()), nil
	default:
		s := string(raw)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Integer(i), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q", s)
		}
		return Real(f), nil
	}
}

func describeToken(tok json.Token) string {
	switch tok.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%v", tok)
	}
}

func jsonCause(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// validateColumnNames rejects headers that name the same column twice.
func validateColumnNames(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if seen[col] {
			return newError(KindInvalidInputShape, "decode csv",
				fmt.Sprintf("duplicate column name %q", col), nil)
		}
		seen[col] = true
	}
	return nil
}
