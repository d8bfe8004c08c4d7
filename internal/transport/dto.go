package transport

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Field keeps a JSON member as-is so absent, null and wrongly typed values
// can be told apart at validation time.
type Field struct {
	Set bool
	Raw json.RawMessage
}

func (f *Field) UnmarshalJSON(b []byte) error {
	f.Set = true
	f.Raw = append(f.Raw[:0], b...)
	return nil
}

func (f Field) IsNull() bool {
	return f.Set && bytes.Equal(bytes.TrimSpace(f.Raw), []byte("null"))
}

// Text returns the decoded string; ok is false when the value is not a
// JSON string. A null value yields (nil, true).
func (f Field) Text() (s *string, ok bool) {
	if f.IsNull() {
		return nil, true
	}
	var v string
	if err := json.Unmarshal(f.Raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

var decimalRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseDecimal accepts plain decimal or exponent notation with a finite
// value. NaN, Inf and hex floats are rejected.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalRe.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Number accepts JSON numbers and numeric strings. quoted reports whether
// the value arrived as a string.
func (f Field) Number() (n json.Number, quoted bool, ok bool) {
	if !f.Set || f.IsNull() {
		return "", false, false
	}
	raw := bytes.TrimSpace(f.Raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", true, false
		}
		if _, ok := ParseDecimal(s); !ok {
			return "", true, false
		}
		return json.Number(strings.TrimSpace(s)), true, true
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", false, false
	}
	if _, ok := ParseDecimal(n.String()); !ok {
		return "", false, false
	}
	return n, false, true
}

// Int accepts integer strings and any integral JSON number, so 10.0 and
// 1e2 decode to 10 and 100.
func (f Field) Int() (int64, bool) {
	n, quoted, ok := f.Number()
	if !ok {
		return 0, false
	}
	if v, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return v, true
	}
	if quoted {
		return 0, false
	}
	v, _ := ParseDecimal(n.String())
	if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func (f Field) Float() (float64, bool) {
	n, _, ok := f.Number()
	if !ok {
		return 0, false
	}
	return ParseDecimal(n.String())
}

func StringField(s string) Field {
	raw, _ := json.Marshal(s)
	return Field{Set: true, Raw: raw}
}

func NumberField(n float64) Field {
	raw, _ := json.Marshal(n)
	return Field{Set: true, Raw: raw}
}

func NullField() Field {
	return Field{Set: true, Raw: json.RawMessage("null")}
}

// ProductInput is shared by create and update; update treats every member
// as optional.
type ProductInput struct {
	Name        Field `json:"name"`
	Description Field `json:"description"`
	Quantity    Field `json:"quantity"`
	Price       Field `json:"price"`
}

type ProductFilter struct {
	Search   string
	PriceMin *float64
	PriceMax *float64
}

type SearchHit struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	Score       float64 `json:"score"`
}

type SearchResponse struct {
	Query string      `json:"query"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Total int64       `json:"total"`
	Hits  []SearchHit `json:"hits"`
}
