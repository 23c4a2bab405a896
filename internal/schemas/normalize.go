package schemas

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DropNulls removes null object members and null array elements from a JSON
// document, so that an extractor's explicit null reads as an absent field.
// A top-level null becomes an empty object. Numbers keep their literal form.
func DropNulls(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON document: %w", err)
	}
	if doc == nil {
		return []byte("{}"), nil
	}

	out, err := json.Marshal(dropNulls(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode document: %w", err)
	}
	return out, nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if child == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(child)
		}
		return t
	case []any:
		kept := t[:0]
		for _, child := range t {
			if child != nil {
				kept = append(kept, dropNulls(child))
			}
		}
		return kept
	default:
		return v
	}
}
