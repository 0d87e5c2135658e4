package settings

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind identifies which typed map of a Record holds a key.
type Kind int

const (
	KindNone Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	}
	return "none"
}

// Record is the persisted state of a Store: one map per value type. The
// maps are independent namespaces, so the same key may appear in several.
type Record struct {
	Ints    map[string]int    `json:"intValues"`
	Floats  FloatMap          `json:"floatValues"`
	Strings map[string]string `json:"stringValues"`
}

func NewRecord() *Record {
	return &Record{
		Ints:    make(map[string]int),
		Floats:  make(map[string]float64),
		Strings: make(map[string]string),
	}
}

// normalize replaces maps left nil by a decoded file that omitted them.
func (r *Record) normalize() {
	if r.Ints == nil {
		r.Ints = make(map[string]int)
	}
	if r.Floats == nil {
		r.Floats = make(map[string]float64)
	}
	if r.Strings == nil {
		r.Strings = make(map[string]string)
	}
}

// HasKey reports whether key is present in any of the typed maps.
func (r *Record) HasKey(key string) bool {
	return r.KindOf(key) != KindNone
}

// KindOf returns the first map holding key, scanning int, float, string.
func (r *Record) KindOf(key string) Kind {
	if _, ok := r.Ints[key]; ok {
		return KindInt
	}
	if _, ok := r.Floats[key]; ok {
		return KindFloat
	}
	if _, ok := r.Strings[key]; ok {
		return KindString
	}
	return KindNone
}

// Remove deletes key from the first map holding it, in the same scan order
// as KindOf. A key also present in a later map stays there.
func (r *Record) Remove(key string) Kind {
	k := r.KindOf(key)
	switch k {
	case KindInt:
		delete(r.Ints, key)
	case KindFloat:
		delete(r.Floats, key)
	case KindString:
		delete(r.Strings, key)
	}
	return k
}

// FloatMap is the float namespace of a Record. NaN and the infinities have
// no JSON number form, so they are written as the strings "NaN",
// "Infinity" and "-Infinity".
type FloatMap map[string]float64

func (m FloatMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch {
		case math.IsNaN(v):
			out[k] = "NaN"
		case math.IsInf(v, 1):
			out[k] = "Infinity"
		case math.IsInf(v, -1):
			out[k] = "-Infinity"
		default:
			out[k] = v
		}
	}
	return json.Marshal(out)
}

func (m *FloatMap) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	if *m == nil {
		*m = make(FloatMap, len(raw))
	}
	for k, r := range raw {
		v, err := decodeFloat(r)
		if err != nil {
			return fmt.Errorf("float value %q: %w", k, err)
		}
		(*m)[k] = v
	}
	return nil
}

func decodeFloat(r json.RawMessage) (float64, error) {
	if len(r) == 0 || r[0] != '"' {
		var v float64
		err := json.Unmarshal(r, &v)
		return v, err
	}
	var s string
	if err := json.Unmarshal(r, &s); err != nil {
		return 0, err
	}
	switch s {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	return 0, fmt.Errorf("unexpected string %q", s)
}
