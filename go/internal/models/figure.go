package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Figure is a displayed number kept as the text the writer stored.
// It decodes from a JSON number or a JSON string, so 120, 120.0 and "120"
// are all accepted and shown exactly as written.
type Figure string

// FigureOf returns a pointer to f, for optional fields
func FigureOf(f Figure) *Figure {
	return &f
}

func (f Figure) String() string {
	return string(f)
}

// Or returns f, or fallback when the document left it empty
func (f Figure) Or(fallback string) string {
	if f == "" {
		return fallback
	}
	return string(f)
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Figure) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Figure(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("figure must be a number or a string, got %s", data)
	}
	*f = Figure(n)
	return nil
}

// MarshalJSON writes numeric text as a JSON number and anything else as a string
func (f Figure) MarshalJSON() ([]byte, error) {
	if f.isNumber() {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f Figure) isNumber() bool {
	if f == "" {
		return false
	}
	c := f[0]
	if c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(f))
}
