package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// JSONAdapter edits JSON documents in place: only the bytes of the addressed
// value change, so key order, indentation and non-ASCII text survive exactly
// as the user formatted them.
type JSONAdapter struct{}

func (JSONAdapter) Load(path string, locator string) (float64, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, &StoreIOError{Path: path, Op: "read", Err: err}
	}

	raw, dataType, _, err := jsonparser.Get(data, strings.Split(locator, ".")...)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return 0, false, nil
		}
		return 0, false, &StoreFormatError{Path: path, Err: err}
	}
	if dataType != jsonparser.Number {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, false, nil
	}
	return v, true, nil
}

func (JSONAdapter) Write(path string, locator string, value any) error {
	fresh := false
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		data = []byte("{}")
		fresh = true
	default:
		return &StoreIOError{Path: path, Op: "read", Err: err}
	}

	var literal string
	switch v := value.(type) {
	case int:
		literal = strconv.Itoa(v)
	case int64:
		literal = strconv.FormatInt(v, 10)
	case float64:
		literal = formatFloat(v)
	default:
		return &StoreFormatError{Path: path, Err: errors.New("unsupported value type")}
	}

	updated, err := jsonparser.Set(data, []byte(literal), strings.Split(locator, ".")...)
	if err != nil {
		return &StoreFormatError{Path: path, Err: err}
	}

	if fresh {
		// A document we created ourselves gets the standard 2-space layout.
		var buf bytes.Buffer
		if err := json.Indent(&buf, updated, "", "  "); err == nil {
			buf.WriteByte('\n')
			updated = buf.Bytes()
		}
	}

	if err := writeFileAtomic(path, updated, 0644); err != nil {
		return &StoreIOError{Path: path, Op: "write", Err: err}
	}
	return nil
}
