package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/textutil"
)

// Setting values were written by several generations of admin tooling, so a
// number can arrive as any of:
//
//	2000
//	"2000"
//	{"value": 2000}
//	{"paise": 2000}
//	{"bps": 500}
//
// wrapperKeys is checked in order; the wrapped value may itself be a string.
var wrapperKeys = []string{"value", "paise", "bps"}

type valueKind int

const (
	kindAbsent valueKind = iota
	kindNumber
	kindString
	kindObject
)

type rawValue struct {
	kind   valueKind
	number float64
	str    string
	object map[string]json.RawMessage
}

func parseRaw(raw []byte) (rawValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return rawValue{kind: kindAbsent}, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return rawValue{}, err
		}
		return rawValue{kind: kindString, str: s}, nil
	case '{':
		var m map[string]json.RawMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return rawValue{}, err
		}
		return rawValue{kind: kindObject, object: m}, nil
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return rawValue{}, fmt.Errorf("unsupported setting value %s", truncateRaw(raw))
		}
		return rawValue{kind: kindNumber, number: f}, nil
	}
}

// Decode extracts a number from any supported value shape.
// found is false for a missing or null value.
func Decode(raw []byte) (value float64, found bool, err error) {
	v, err := parseRaw(raw)
	if err != nil {
		return 0, false, err
	}

	switch v.kind {
	case kindAbsent:
		return 0, false, nil
	case kindNumber:
		return v.number, true, nil
	case kindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, false, nil
		}
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return 0, false, fmt.Errorf("setting value %q is not a number", s)
		}
		return f, true, nil
	case kindObject:
		for _, k := range wrapperKeys {
			inner, ok := v.object[k]
			if !ok {
				continue
			}
			if b := bytes.TrimSpace(inner); len(b) > 0 && b[0] == '{' {
				return 0, false, fmt.Errorf("nested object under %q", k)
			}
			return Decode(inner)
		}
		return 0, false, fmt.Errorf("object setting has none of %v", wrapperKeys)
	}
	return 0, false, nil
}

func truncateRaw(b []byte) string {
	if len(b) > 64 {
		return textutil.Truncate(string(b), 64) + "..."
	}
	return string(b)
}
