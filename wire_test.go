package sqlbind

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeValues(t *testing.T) {
	doc := `[
		{"type": "number", "value": "123"},
		{"type": "number", "value": 4.5},
		{"type": "string", "value": "Hell!"},
		{"type": "bool", "value": true},
		{"type": "null"},
		{"type": "typed_string", "value": {"tag": "date", "text": "2024-05-01"}},
		{"type": "uuid", "value": "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"type": "array", "value": [{"type": "number", "value": "1"}, {"type": "string", "value": "x"}]},
		{"type": "dict", "value": [[{"type": "string", "value": "k"}, {"type": "number", "value": "9"}]]}
	]`
	ps, err := DecodeValues([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ps.Len() != 9 {
		t.Fatalf("Len = %d, want 9", ps.Len())
	}

	v, _ := ps.Get(1)
	if v.Kind() != KindNumber || v.Number().String() != "123" {
		t.Fatalf("value 1: %#v", v)
	}
	v, _ = ps.Get(2)
	if v.Number().String() != "4.5" {
		t.Fatalf("bare JSON number payload: %s", v.Number())
	}
	v, _ = ps.Get(3)
	if v.Kind() != KindString || v.Text() != "Hell!" {
		t.Fatalf("value 3: %#v", v)
	}
	v, _ = ps.Get(6)
	if v.Kind() != KindTypedString || v.Tag() != "date" {
		t.Fatalf("value 6: %#v", v)
	}
	v, _ = ps.Get(7)
	if v.Kind() != KindString || !strings.HasPrefix(v.Text(), "6ba7b810") {
		t.Fatalf("uuid decodes to a string value: %#v", v)
	}
	v, _ = ps.Get(8)
	if v.Kind() != KindArray || len(v.Items()) != 2 {
		t.Fatalf("value 8: %#v", v)
	}
	v, _ = ps.Get(9)
	if v.Kind() != KindDict || len(v.Pairs()) != 1 || v.Pairs()[0].Value.Number().String() != "9" {
		t.Fatalf("value 9: %#v", v)
	}
}

func TestDecodeFailures(t *testing.T) {
	cases := []string{
		`[{"type": "rocket", "value": 1}]`,
		`[{"type": "number", "value": "12x"}]`,
		`[{"type": "uuid", "value": "not-a-uuid"}]`,
		`[{"type": "bool", "value": "yes"}]`,
		`not json`,
	}
	for _, doc := range cases {
		_, err := DecodeValues([]byte(doc))
		if !errors.Is(err, ErrSerialization) {
			t.Fatalf("%s: expected Serialization error, got %v", doc, err)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ps := NewParameterSet(
		FromInt(123),
		FromString("Hell!"),
		Nil(),
		FromTypedString("datetime", "2024-05-01T10:00:00Z"),
		FromArray(FromBool(false), FromNumberString("0.25")),
		FromDict(Pair{Key: FromString("a"), Value: FromInt(1)}, Pair{Key: FromString("b"), Value: FromInt(2)}),
	)
	data, err := EncodeValues(ps)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeValues(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Len() != ps.Len() {
		t.Fatalf("Len = %d, want %d", back.Len(), ps.Len())
	}
	d, _ := back.Get(6)
	if d.Kind() != KindDict || d.Pairs()[0].Key.Text() != "a" || d.Pairs()[1].Key.Text() != "b" {
		t.Fatalf("dict order lost: %#v", d)
	}
	arr, _ := back.Get(5)
	if arr.Items()[1].Number().String() != "0.25" {
		t.Fatalf("array payload: %#v", arr)
	}
}
