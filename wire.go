package sqlbind

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// wireValue is the tagged JSON document for one bound value:
//
//	{"type": "number", "value": "1.25"}
//	{"type": "typed_string", "value": {"tag": "date", "text": "2024-05-01"}}
//	{"type": "dict", "value": [[<key doc>, <value doc>], ...]}
//
// Numbers travel as strings so arbitrary precision survives the trip.
type wireValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type wireTypedString struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

// MarshalJSON encodes the value as a tagged document.
func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Type: v.kind.String()}
	var payload any
	switch v.kind {
	case KindNull:
		return json.Marshal(w)
	case KindBool:
		payload = v.b
	case KindNumber:
		payload = v.num.String()
	case KindString:
		payload = v.str
	case KindTypedString:
		payload = wireTypedString{Tag: v.tag, Text: v.str}
	case KindArray:
		payload = v.items
	case KindDict:
		pairs := make([][2]Value, len(v.pairs))
		for i, p := range v.pairs {
			pairs[i] = [2]Value{p.Key, p.Value}
		}
		payload = pairs
	default:
		return nil, serializationErr("unknown value kind %d", v.kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, serializationErr("%v", err)
	}
	w.Value = raw
	return json.Marshal(w)
}

// UnmarshalJSON decodes a tagged document. The extra discriminant "uuid" is
// accepted on input: its payload is validated and stored as a string value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return serializationErr("%v", err)
	}
	switch w.Type {
	case "null", "":
		*v = Nil()
		return nil
	case "bool":
		var b bool
		if err := json.Unmarshal(w.Value, &b); err != nil {
			return serializationErr("bool payload: %v", err)
		}
		*v = FromBool(b)
		return nil
	case "number":
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			// tolerate a bare JSON number
			var n json.Number
			if err2 := json.Unmarshal(w.Value, &n); err2 != nil {
				return serializationErr("number payload: %v", err)
			}
			s = n.String()
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return serializationErr("number payload %q: %v", s, err)
		}
		*v = FromDecimal(d)
		return nil
	case "string":
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return serializationErr("string payload: %v", err)
		}
		*v = FromString(s)
		return nil
	case "typed_string":
		var ts wireTypedString
		if err := json.Unmarshal(w.Value, &ts); err != nil {
			return serializationErr("typed_string payload: %v", err)
		}
		*v = FromTypedString(ts.Tag, ts.Text)
		return nil
	case "uuid":
		var s string
		if err := json.Unmarshal(w.Value, &s); err != nil {
			return serializationErr("uuid payload: %v", err)
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return serializationErr("uuid payload %q: %v", s, err)
		}
		*v = FromUUID(u)
		return nil
	case "array":
		var items []Value
		if err := json.Unmarshal(w.Value, &items); err != nil {
			return asSerialization(err)
		}
		*v = FromArray(items...)
		return nil
	case "dict":
		var raw [][2]Value
		if err := json.Unmarshal(w.Value, &raw); err != nil {
			return asSerialization(err)
		}
		pairs := make([]Pair, len(raw))
		for i, kv := range raw {
			pairs[i] = Pair{Key: kv[0], Value: kv[1]}
		}
		*v = FromDict(pairs...)
		return nil
	default:
		return serializationErr("unknown value type %q", w.Type)
	}
}

// asSerialization keeps an already-structured error intact instead of
// wrapping it a second time on the way out of a nested decode.
func asSerialization(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return serializationErr("%v", err)
}

// DecodeValues decodes a JSON array of tagged value documents into a
// ParameterSet, in order.
func DecodeValues(data []byte) (*ParameterSet, error) {
	var values []Value
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, asSerialization(err)
	}
	return NewParameterSet(values...), nil
}

// EncodeValues encodes bound values as a JSON array of tagged documents.
func EncodeValues(ps *ParameterSet) ([]byte, error) {
	data, err := json.Marshal(ps.values)
	if err != nil {
		return nil, serializationErr("%v", err)
	}
	return data, nil
}
