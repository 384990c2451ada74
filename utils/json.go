package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

func UnmarshalFromJSON[T any](data []byte, output *T) error {
	return json.Unmarshal(data, output)
}

// ParseItemsJSON decodes a client supplied item list. Malformed or blank input yields an
// empty list so callers only need to check for emptiness.
func ParseItemsJSON[T any](raw string) []T {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var items []T
	if err := UnmarshalFromJSON([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// FlexInt accepts a JSON number or a numeric string; null and "" decode to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("invalid integer %s", b)
		}
		n = int(fl)
	}
	*f = FlexInt(n)
	return nil
}

// Ptr returns nil for 0, which never names a row.
func (f FlexInt) Ptr() *int {
	if f == 0 {
		return nil
	}
	v := int(f)
	return &v
}
