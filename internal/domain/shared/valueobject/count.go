package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Count is an integer quantity that decodes from a JSON number or a
// numeric string, matching how POS clients submit form values.
type Count int

// Int returns the plain int value
func (c Count) Int() int {
	return int(c)
}

// MarshalJSON encodes the count as a JSON number
func (c Count) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts 3, "3", 3.0 and "3.0"; fractional values are rejected
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid count: %w", err)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*c = 0
			return nil
		}
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*c = Count(n)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid count %q", raw)
	}
	if math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("count %q is out of range", raw)
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("count must be a whole number, got %q", raw)
	}
	*c = Count(int64(f))
	return nil
}
