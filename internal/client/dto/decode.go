// Package dto converts raw JSON payloads from the Quilt backend into typed
// models, tolerating schema drift: absent defaultable keys fall back to
// documented defaults, while a present key with the wrong JSON type is always
// a hard decode failure. Decoding is pure; nothing here touches the store or
// the network.
package dto

import (
	"encoding/json"
	"time"

	"github.com/quiltchat/quilt/internal/client/models"
	"github.com/quiltchat/quilt/internal/common"
)

// wireTimeLayout is how outgoing timestamps are rendered. Fixed microsecond
// precision keeps the fractional part present even on whole seconds.
const wireTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

var parseTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999", // no zone: interpreted as UTC
}

// nowFn is a test seam for the UserSettings audit-field fallback.
var nowFn = time.Now

func parseTimestamp(entity, field, value string) (time.Time, error) {
	for _, layout := range parseTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &common.MalformedTimestampError{Entity: entity, Field: field, Value: value}
}

// FormatTimestamp renders t in the wire format (ISO-8601, fractional seconds).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(wireTimeLayout)
}

// object is a parsed JSON object with typed, field-naming accessors. A key
// present with JSON null is treated the same as an absent key.
type object struct {
	entity string
	fields map[string]json.RawMessage
}

func parseObject(entity string, data []byte) (*object, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &common.SchemaViolationError{Entity: entity, Field: "(root)", Detail: "expected object"}
	}
	return &object{entity: entity, fields: fields}, nil
}

func (o *object) raw(field string) (json.RawMessage, bool) {
	r, ok := o.fields[field]
	if !ok || string(r) == "null" {
		return nil, false
	}
	return r, true
}

func (o *object) violation(field, detail string) error {
	return &common.SchemaViolationError{Entity: o.entity, Field: field, Detail: detail}
}

func (o *object) reqString(field string) (string, error) {
	r, ok := o.raw(field)
	if !ok {
		return "", o.violation(field, "missing required field")
	}
	var s string
	if err := json.Unmarshal(r, &s); err != nil {
		return "", o.violation(field, "expected string")
	}
	return s, nil
}

func (o *object) optString(field string) (*string, error) {
	r, ok := o.raw(field)
	if !ok {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(r, &s); err != nil {
		return nil, o.violation(field, "expected string")
	}
	return &s, nil
}

func (o *object) stringOr(field, def string) (string, error) {
	s, err := o.optString(field)
	if err != nil {
		return "", err
	}
	if s == nil {
		return def, nil
	}
	return *s, nil
}

func (o *object) boolOr(field string, def bool) (bool, error) {
	r, ok := o.raw(field)
	if !ok {
		return def, nil
	}
	var b bool
	if err := json.Unmarshal(r, &b); err != nil {
		return false, o.violation(field, "expected bool")
	}
	return b, nil
}

func (o *object) optBool(field string) (*bool, error) {
	r, ok := o.raw(field)
	if !ok {
		return nil, nil
	}
	var b bool
	if err := json.Unmarshal(r, &b); err != nil {
		return nil, o.violation(field, "expected bool")
	}
	return &b, nil
}

func (o *object) intOr(field string, def int) (int, error) {
	r, ok := o.raw(field)
	if !ok {
		return def, nil
	}
	var n json.Number
	if err := json.Unmarshal(r, &n); err != nil {
		return 0, o.violation(field, "expected integer")
	}
	i, err := n.Int64()
	if err != nil {
		return 0, o.violation(field, "expected integer")
	}
	return int(i), nil
}

func (o *object) optInt(field string) (*int, error) {
	if _, ok := o.raw(field); !ok {
		return nil, nil
	}
	i, err := o.intOr(field, 0)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (o *object) optFloat(field string) (*float64, error) {
	r, ok := o.raw(field)
	if !ok {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(r, &f); err != nil {
		return nil, o.violation(field, "expected number")
	}
	return &f, nil
}

func (o *object) reqTime(field string) (time.Time, error) {
	s, err := o.reqString(field)
	if err != nil {
		return time.Time{}, err
	}
	return parseTimestamp(o.entity, field, s)
}

func (o *object) optTime(field string) (*time.Time, error) {
	s, err := o.optString(field)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, nil
	}
	t, err := parseTimestamp(o.entity, field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// timeOrNow is the non-critical audit-field variant: an absent key or an
// unparseable string falls back to the current time instead of failing. A
// present key of the wrong JSON type still fails.
func (o *object) timeOrNow(field string) (time.Time, error) {
	s, err := o.optString(field)
	if err != nil {
		return time.Time{}, err
	}
	if s == nil {
		return nowFn().UTC(), nil
	}
	t, err := parseTimestamp(o.entity, field, *s)
	if err != nil {
		return nowFn().UTC(), nil
	}
	return t, nil
}

func (o *object) optStringSlice(field string) ([]string, error) {
	r, ok := o.raw(field)
	if !ok {
		return nil, nil
	}
	var s []string
	if err := json.Unmarshal(r, &s); err != nil {
		return nil, o.violation(field, "expected array of strings")
	}
	return s, nil
}

func (o *object) rawSlice(field string) ([]json.RawMessage, error) {
	r, ok := o.raw(field)
	if !ok {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(r, &items); err != nil {
		return nil, o.violation(field, "expected array")
	}
	return items, nil
}

func (o *object) optValue(field string) (*models.Value, error) {
	r, ok := o.raw(field)
	if !ok {
		return nil, nil
	}
	var v models.Value
	if err := json.Unmarshal(r, &v); err != nil {
		return nil, o.violation(field, "expected JSON value")
	}
	return &v, nil
}

func (o *object) valueMap(field string) (map[string]models.Value, error) {
	r, ok := o.raw(field)
	if !ok {
		return nil, nil
	}
	var m map[string]models.Value
	if err := json.Unmarshal(r, &m); err != nil {
		return nil, o.violation(field, "expected object")
	}
	return m, nil
}

// decodeList decodes a JSON array element by element. A bad element is
// isolated and reported without aborting the rest; the caller decides whether
// a partially decoded list is acceptable.
func decodeList[T any](entity string, data []byte, decode func([]byte) (T, error)) ([]T, []error, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, nil, &common.SchemaViolationError{Entity: entity, Field: "(root)", Detail: "expected array"}
	}
	out := make([]T, 0, len(items))
	var itemErrs []error
	for _, item := range items {
		decoded, err := decode(item)
		if err != nil {
			itemErrs = append(itemErrs, err)
			continue
		}
		out = append(out, decoded)
	}
	return out, itemErrs, nil
}
