package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexInt is an integer that also accepts a quoted decimal string in JSON.
// HTML form values arrive as strings.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		v, err := strconv.ParseInt(string(bytes.TrimSpace([]byte(s))), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		*f = FlexInt(v)
		return nil
	}

	var v int64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}

func (f FlexInt) Int64() int64 { return int64(f) }

func (f FlexInt) Int() int { return int(f) }
