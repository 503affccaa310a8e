package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/titanous/json5"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
)

// object is a decoded JSON or TOML table.
type object = map[string]any

// readJSONObject loads path as a JSON object. A missing or blank file yields
// an empty object. Numbers are kept as json.Number so untouched values are
// re-encoded exactly. When lenient is set, files that are not strict JSON are
// retried as JSON5 (comments, trailing commas, unquoted keys).
func readJSONObject(path string, lenient bool) (object, error) {
	data, exists, err := fsutil.ReadIfExists(path)
	if err != nil {
		return nil, err
	}
	if !exists || len(bytes.TrimSpace(data)) == 0 {
		return object{}, nil
	}

	doc, err := decodeStrictJSON(data)
	if err == nil {
		return doc, nil
	}
	if !lenient {
		return nil, &ParseError{Path: path, Err: err}
	}

	var relaxed object
	if err5 := json5.Unmarshal(data, &relaxed); err5 != nil {
		return nil, &ParseError{Path: path, Err: err5}
	}
	if relaxed == nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("top-level value is not an object")}
	}
	return relaxed, nil
}

func decodeStrictJSON(data []byte) (object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc object
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}
	if doc == nil {
		return nil, fmt.Errorf("top-level value is not an object")
	}
	return doc, nil
}

// encodeJSON renders doc with two-space indentation and sorted keys, so the
// same document always yields the same bytes.
func encodeJSON(doc object) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// table returns parent[key] as an object, creating it when absent. A key
// holding any other type is a conflict the writer refuses to resolve.
func table(parent object, key string) (object, error) {
	v, ok := parent[key]
	if !ok || v == nil {
		child := object{}
		parent[key] = child
		return child, nil
	}
	child, ok := v.(object)
	if !ok {
		return nil, fmt.Errorf("key %q holds %T, expected a table/object", key, v)
	}
	return child, nil
}

// tablePath walks nested tables, creating missing levels.
func tablePath(root object, keys ...string) (object, error) {
	cur := root
	for _, k := range keys {
		next, err := table(cur, k)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func setDefault(obj object, key string, value any) {
	if _, ok := obj[key]; !ok {
		obj[key] = value
	}
}

func deleteKeys(obj object, keys ...string) {
	for _, k := range keys {
		delete(obj, k)
	}
}
