package references

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// CodeList is an ordered list of classification codes stored as a JSONB array.
type CodeList []string

// Contains reports whether code is an element of the list.
func (l CodeList) Contains(code string) bool {
	return slices.Contains(l, code)
}

// Replace returns a copy of l with every element equal to oldCode set to
// newCode, in place. The boolean reports whether anything changed.
func (l CodeList) Replace(oldCode, newCode string) (CodeList, bool) {
	out := slices.Clone(l)
	changed := false
	for i, code := range out {
		if code == oldCode {
			out[i] = newCode
			changed = true
		}
	}
	return out, changed
}

// Scan implements sql.Scanner for JSONB array columns.
func (l *CodeList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = CodeList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan code list: unsupported type %T", src)
	}

	var codes []string
	if err := json.Unmarshal(data, &codes); err != nil {
		return fmt.Errorf("scan code list: %w", err)
	}
	if codes == nil {
		codes = []string{}
	}
	*l = codes
	return nil
}

// Value implements driver.Valuer. A nil list is stored as an empty array.
func (l CodeList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
