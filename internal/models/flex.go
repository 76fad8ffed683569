package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The commerce API is assembled from several backend generations and is not
// consistent about scalar types: ids arrive as numbers or strings, prices as
// strings, booleans as "1"/"yes". These wrappers absorb that at decode time.

type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*f = FlexString(s)

		return nil
	}

	// Numeric id; keep integer formatting when there is no fraction.
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}

	*f = FlexString(n.String())

	return nil
}

func (f FlexString) String() string {
	return string(f)
}

type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0

			return nil
		}

		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0

			return nil
		}

		*f = FlexFloat(v)

		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*f = FlexFloat(v)

	return nil
}

type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var v FlexFloat
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}

	*f = FlexInt(v)

	return nil
}

type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte("null")), len(data) == 0:
		*f = false
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		normalized := strings.ToLower(strings.TrimSpace(s))
		*f = normalized == "true" || normalized == "1" || normalized == "yes"
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}

		*f = n == 1
	}

	return nil
}
