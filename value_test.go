package sqlbind

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SimonWaldherr/sqlbind/sqlast"
)

func TestValueExprTotality(t *testing.T) {
	values := []Value{
		Nil(),
		FromBool(true),
		FromInt(-42),
		FromString("hi"),
		FromTypedString("date", "2024-05-01"),
		FromTypedString("geo", "POINT(1 2)"),
		FromArray(FromInt(1), FromString("x")),
		FromDict(Pair{Key: FromString("k"), Value: FromInt(1)}),
	}
	// every variant maps to exactly one distinguishable node shape
	for _, v := range values {
		e := v.Expr()
		if e == nil {
			t.Fatalf("Expr returned nil for kind %s", v.Kind())
		}
	}

	if lit, ok := Nil().Expr().(*sqlast.Literal); !ok || lit.Val != nil {
		t.Fatalf("null must map to the NULL literal")
	}
	if lit, ok := FromBool(true).Expr().(*sqlast.Literal); !ok || lit.Val != true {
		t.Fatalf("bool mapping wrong")
	}
	if lit, ok := FromInt(7).Expr().(*sqlast.Literal); !ok {
		t.Fatalf("number mapping wrong")
	} else if d, ok := lit.Val.(decimal.Decimal); !ok || d.String() != "7" {
		t.Fatalf("number payload wrong: %#v", lit.Val)
	}
	if lit, ok := FromString("s").Expr().(*sqlast.Literal); !ok || lit.Val != "s" {
		t.Fatalf("string mapping wrong")
	}

	tl, ok := FromTypedString("datetime", "2024-05-01T10:00:00Z").Expr().(*sqlast.TypedLiteral)
	if !ok || tl.Type != sqlast.TypeDate || tl.Text != "2024-05-01T10:00:00Z" {
		t.Fatalf("datetime tag must map to a DATE literal carrying its text: %#v", tl)
	}
	tl, ok = FromTypedString("geo", "POINT(1 2)").Expr().(*sqlast.TypedLiteral)
	if !ok || tl.Type != sqlast.TypeUnspecified {
		t.Fatalf("unknown tag must map to an unspecified typed literal")
	}

	arr, ok := FromArray(FromInt(1), FromInt(2)).Expr().(*sqlast.ArrayExpr)
	if !ok || len(arr.Elems) != 2 {
		t.Fatalf("array mapping wrong: %#v", arr)
	}

	m, ok := FromDict(
		Pair{Key: FromString("b"), Value: FromInt(2)},
		Pair{Key: FromString("a"), Value: FromInt(1)},
	).Expr().(*sqlast.MapExpr)
	if !ok || len(m.Entries) != 2 {
		t.Fatalf("dict mapping wrong: %#v", m)
	}
	// insertion order is preserved
	if got := sqlast.RenderExpr(m); got != "MAP {'b': 2, 'a': 1}" {
		t.Fatalf("dict order not preserved: %q", got)
	}
}

func TestFloatFallback(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		v := FromFloat(f)
		if v.Kind() != KindNumber || !v.Number().IsZero() {
			t.Fatalf("non-finite float must fall back to zero, got %v", v.Number())
		}
	}
	if got := FromFloat(1.5).Number().String(); got != "1.5" {
		t.Fatalf("got %q", got)
	}
}

func TestNumberStringFallback(t *testing.T) {
	if !FromNumberString("12x").Number().IsZero() {
		t.Fatalf("malformed number spelling must fall back to zero")
	}
	if got := FromNumberString("0.300").Number().String(); got != "0.3" {
		t.Fatalf("got %q", got)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	if got := FromUint(uint8(255)).Number().String(); got != "255" {
		t.Fatalf("uint: %q", got)
	}
	u := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if v := FromUUID(u); v.Kind() != KindString || v.Text() != u.String() {
		t.Fatalf("uuid: %#v", v)
	}
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	v := FromTime(ts)
	if v.Kind() != KindTypedString || v.Tag() != "datetime" || v.Text() != "2024-05-01T10:00:00Z" {
		t.Fatalf("time: %#v", v)
	}
}
