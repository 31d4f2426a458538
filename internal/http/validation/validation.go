package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"
)

type FieldErrors map[string]string

// FromBindError maps a gin bind error to field -> message, keyed by the json
// tag of dst (a pointer to the bound struct).
func FromBindError(err error, dst any) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fieldKey(dst, fe)] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	var te *json.UnmarshalTypeError
	if errors.As(err, &te) && te.Field != "" {
		out[te.Field] = "Wrong type."
		return out
	}

	out["_"] = "Request body is not valid JSON."
	return out
}

// AsAppError wraps a bind error as a 400 with per-field messages.
func AsAppError(err error, dst any) error {
	return apperr.InvalidErr("VALIDATION_FAILED", "Some fields are invalid.", FromBindError(err, dst))
}

// fieldKey prefers the json name; nested fields keep their path,
// e.g. items[0].quantity.
func fieldKey(dst any, fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}

	t := reflect.TypeOf(dst)
	parts := strings.Split(ns, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		name, idx := part, ""
		if i := strings.Index(part, "["); i >= 0 {
			name, idx = part[:i], part[i:]
		}
		key := strings.ToLower(name)
		t = structType(t)
		if t != nil {
			if f, ok := t.FieldByName(name); ok {
				if tag := jsonName(f); tag != "" {
					key = tag
				}
				t = f.Type
			} else {
				t = nil
			}
		}
		out = append(out, key+idx)
	}
	return strings.Join(out, ".")
}

func structType(t reflect.Type) reflect.Type {
	for t != nil && (t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "-" {
		return ""
	}
	return tag
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "min", "gte":
		return "Must be at least " + param + "."
	case "max", "lte":
		return "Must be at most " + param + "."
	case "oneof":
		return "Must be one of: " + param + "."
	case "uuid":
		return "Must be a valid id."
	case "datetime":
		return "Must be a date in YYYY-MM-DD format."
	case "dive":
		return "Invalid item."
	default:
		return "Invalid value."
	}
}
