package records

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Scalar is a front-matter value stored as text
// older files hold whatever the YAML parser produced, so numbers and booleans are read back as their text form
type Scalar string

// UnmarshalJSON accepts a string, number, boolean or null; arrays and objects read as empty
func (s *Scalar) UnmarshalJSON(b []byte) error {
	v, err := scalarText(b)
	if err != nil {
		return err
	}
	*s = Scalar(v)
	return nil
}

// Tags is the tag list of a record
// older files may hold a single comma separated string instead of a list
type Tags []string

// UnmarshalJSON accepts a list of scalars, a comma separated string or null
func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = nil
		return nil
	}
	if b[0] != '[' {
		s, err := scalarText(b)
		if err != nil {
			return err
		}
		*t = SplitTags(s)
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	var out Tags
	for _, it := range items {
		s, err := scalarText(it)
		if err != nil {
			return err
		}
		if s != "" {
			out = append(out, s)
		}
	}
	*t = out
	return nil
}

// SplitTags splits a comma separated tag string, dropping blanks
func SplitTags(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatNumber renders a number the way front-matter values are stored
func FormatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func scalarText(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "", nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return "", err
		}
		return strconv.FormatBool(v), nil
	case 'n', '[', '{':
		return "", nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := n.Float64()
	if err != nil {
		return "", err
	}
	return FormatNumber(f), nil
}
