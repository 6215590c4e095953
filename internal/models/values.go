package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

var null = []byte("null")

// FlexString decodes a JSON string, number, bool or string array into text.
// The backend is inconsistent about these fields across versions.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '[':
		var parts []string
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		*f = FlexString(strings.Join(parts, ", "))
	default:
		*f = FlexString(string(data))
	}
	return nil
}

func (f FlexString) String() string { return string(f) }

// Number is a numeric field that may arrive as a number, a numeric string, "" or null
type Number struct {
	Value float64
	Valid bool
}

// NewNumber returns a valid Number
func NewNumber(v float64) Number { return Number{Value: v, Valid: true} }

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = Number{}
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*n = NewNumber(v)
		}
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	*n = NewNumber(v)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return null, nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

// Salary covers the three shapes the backend has used for job pay:
// a legacy scalar (number or string) and a {min,max,currency} range.
type Salary struct {
	Amount   Number
	Text     string
	Min      Number
	Max      Number
	Currency string
}

// IsRange reports whether the salary was sent as a {min,max} object
func (s Salary) IsRange() bool { return s.Min.Valid || s.Max.Valid || s.Currency != "" }

// IsZero reports whether no salary was sent at all
func (s Salary) IsZero() bool { return !s.Amount.Valid && s.Text == "" && !s.IsRange() }

// Raw returns the salary as the backend sent it, used for substring filters
func (s Salary) Raw() string {
	switch {
	case s.Amount.Valid:
		return strconv.FormatFloat(s.Amount.Value, 'f', -1, 64)
	case s.Text != "":
		return s.Text
	case s.IsRange():
		return strconv.FormatFloat(s.Min.Value, 'f', -1, 64) + "-" + strconv.FormatFloat(s.Max.Value, 'f', -1, 64)
	}
	return ""
}

func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*s = Salary{}
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			Min      Number `json:"min"`
			Max      Number `json:"max"`
			Currency string `json:"currency"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		s.Min, s.Max, s.Currency = obj.Min, obj.Max, obj.Currency
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if v, err := strconv.ParseFloat(text, 64); err == nil {
			s.Amount = NewNumber(v)
		} else {
			s.Text = text
		}
	default:
		return s.Amount.UnmarshalJSON(data)
	}
	return nil
}

func (s Salary) MarshalJSON() ([]byte, error) {
	switch {
	case s.IsRange():
		return json.Marshal(struct {
			Min      Number `json:"min"`
			Max      Number `json:"max"`
			Currency string `json:"currency,omitempty"`
		}{s.Min, s.Max, s.Currency})
	case s.Amount.Valid:
		return s.Amount.MarshalJSON()
	case s.Text != "":
		return json.Marshal(s.Text)
	}
	return null, nil
}

type identified interface {
	RefID() string
}

// Ref is a reference that the backend either sends as an id or populates
// with the full record.
type Ref[T identified] struct {
	ID    string
	Value *T
}

// RefTo builds a populated reference
func RefTo[T identified](v T) Ref[T] {
	return Ref[T]{ID: v.RefID(), Value: &v}
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref[T]{}
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.ID = v.RefID()
	r.Value = &v
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID == "" {
		return null, nil
	}
	return json.Marshal(r.ID)
}
