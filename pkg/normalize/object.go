package normalize

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// TimeLayout is the local-time rendering of upstream epoch timestamps
const TimeLayout = "02 January 2006, 03:04:05PM"

// MissingTimestamp is the sentinel stored when a creation time is absent
const MissingTimestamp = "NaN"

// object is a decoded JSON object whose values stay raw until a typed
// lookup asks for them. Lookups never fail: absent, null and mistyped values
// all come back as nil.
type object map[string]json.RawMessage

func decodeObject(raw json.RawMessage) (object, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	var o object
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, false
	}
	return o, true
}

func (o object) has(key string) bool {
	_, ok := o[key]
	return ok
}

func (o object) raw(key string) (json.RawMessage, bool) {
	v, ok := o[key]
	if !ok || len(v) == 0 || string(v) == "null" {
		return nil, false
	}
	return v, true
}

func (o object) str(key string) *string {
	v, ok := o.raw(key)
	if !ok {
		return nil
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return nil
	}
	return &s
}

func (o object) boolean(key string) *bool {
	v, ok := o.raw(key)
	if !ok {
		return nil
	}
	var b bool
	if json.Unmarshal(v, &b) != nil {
		return nil
	}
	return &b
}

func (o object) number(key string) *float64 {
	v, ok := o.raw(key)
	if !ok {
		return nil
	}
	var f float64
	if json.Unmarshal(v, &f) != nil {
		return nil
	}
	return &f
}

func (o object) integer(key string) *int64 {
	f := o.number(key)
	if f == nil {
		return nil
	}
	n := int64(*f)
	return &n
}

func (o object) child(key string) object {
	v, ok := o.raw(key)
	if !ok {
		return nil
	}
	c, _ := decodeObject(v)
	return c
}

// firstStr returns the first present string among keys
func (o object) firstStr(keys ...string) *string {
	for _, k := range keys {
		if s := o.str(k); s != nil {
			return s
		}
	}
	return nil
}

// firstInt returns the first present number among keys
func (o object) firstInt(keys ...string) *int64 {
	for _, k := range keys {
		if n := o.integer(k); n != nil {
			return n
		}
	}
	return nil
}

// created renders the epoch stored under key, or MissingTimestamp
func (o object) created(key string) string {
	f := o.number(key)
	if f == nil || *f == 0 {
		return MissingTimestamp
	}
	return FormatTimestamp(*f)
}

// edited reads a field that is either false or an epoch timestamp
func (o object) edited(key string) Edited {
	f := o.number(key)
	if f == nil || *f == 0 {
		return Edited{}
	}
	return Edited{At: FormatTimestamp(*f)}
}

// icon strips the query string from an image URL
func (o object) icon(keys ...string) *string {
	for _, k := range keys {
		s := o.str(k)
		if s == nil {
			continue
		}
		if *s == "" && k != keys[len(keys)-1] {
			continue
		}
		stripped, _, _ := strings.Cut(*s, "?")
		return &stripped
	}
	return nil
}

// FormatTimestamp converts epoch seconds to the local-time display format
func FormatTimestamp(epoch float64) string {
	sec, frac := math.Modf(epoch)
	return time.Unix(int64(sec), int64(frac*1e9)).Local().Format(TimeLayout)
}

// Edited holds a post or comment edit time. The zero value means the entity
// was never edited and renders as false.
type Edited struct {
	At string
}

// Value returns false for unedited entities and the formatted time otherwise
func (e Edited) Value() interface{} {
	if e.At == "" {
		return false
	}
	return e.At
}

func (e Edited) String() string {
	if e.At == "" {
		return "false"
	}
	return e.At
}

func (e Edited) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Value())
}
