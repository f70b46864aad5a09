package domain

import (
	"bytes"
	"encoding/json"
)

var jsonFalse = []byte("false")

// OdooString is a string field that Odoo encodes as false when empty.
type OdooString string

func (s *OdooString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, jsonFalse) || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	var value string
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*s = OdooString(value)
	return nil
}

// MarshalJSON re-emits false for empty values so clients see Odoo's wire shape.
func (s OdooString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return jsonFalse, nil
	}
	return json.Marshal(string(s))
}

// OdooInt is an integer field that Odoo may encode as false.
type OdooInt struct {
	Value int64
	Set   bool
}

func (i *OdooInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, jsonFalse) || bytes.Equal(trimmed, []byte("null")) {
		*i = OdooInt{}
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return err
	}
	value, err := number.Int64()
	if err != nil {
		parsed, ferr := number.Float64()
		if ferr != nil {
			return err
		}
		value = int64(parsed)
	}
	*i = OdooInt{Value: value, Set: true}
	return nil
}

func (i OdooInt) MarshalJSON() ([]byte, error) {
	if !i.Set {
		return jsonFalse, nil
	}
	return json.Marshal(i.Value)
}
