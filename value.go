package sqlbind

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SimonWaldherr/sqlbind/sqlast"
)

// ValueKind discriminates the Value union.
type ValueKind int

const (
	// KindNull is the SQL NULL value.
	KindNull ValueKind = iota
	// KindBool is a boolean value.
	KindBool
	// KindNumber is an arbitrary-precision decimal. Numbers are never
	// stored as native floats, so literal spellings round-trip exactly.
	KindNumber
	// KindString is a plain text value.
	KindString
	// KindTypedString is a text value carrying a type tag, e.g. a date
	// literal keeping its exact spelling.
	KindTypedString
	// KindArray is an ordered sequence of values.
	KindArray
	// KindDict is an ordered sequence of key/value pairs.
	KindDict
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindTypedString:
		return "typed_string"
	case KindArray:
		return "array"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Pair is one entry of a dictionary value. Order is preserved because
// dictionaries render into ordered literal maps.
type Pair struct {
	Key   Value
	Value Value
}

// Value is a bindable parameter value: one of null, bool, number, string,
// typed string, array or dict. Values are immutable once constructed; they
// are converted into fresh syntax tree nodes at every substitution site.
type Value struct {
	kind  ValueKind
	b     bool
	num   decimal.Decimal
	str   string
	tag   string
	items []Value
	pairs []Pair
}

// Kind returns the variant discriminant.
func (v Value) Kind() ValueKind { return v.kind }

// Nil returns the NULL value.
func Nil() Value { return Value{kind: KindNull} }

// FromBool builds a boolean value.
func FromBool(b bool) Value { return Value{kind: KindBool, b: b} }

// FromDecimal builds a number from an arbitrary-precision decimal.
func FromDecimal(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// FromInt builds a number from any signed integer width.
func FromInt[T ~int | ~int8 | ~int16 | ~int32 | ~int64](n T) Value {
	return FromDecimal(decimal.NewFromInt(int64(n)))
}

// FromUint builds a number from any unsigned integer width.
func FromUint[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) Value {
	return FromDecimal(decimal.NewFromUint64(uint64(n)))
}

// FromFloat builds a number from a float. Exactness is best effort: NaN and
// infinities fall back to zero. Callers needing exact literals should use
// FromDecimal or FromNumberString.
func FromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return FromDecimal(decimal.Zero)
	}
	return FromDecimal(decimal.NewFromFloat(f))
}

// FromFloat32 builds a number from a 32-bit float with the same fallback
// rules as FromFloat.
func FromFloat32(f float32) Value {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return FromDecimal(decimal.Zero)
	}
	return FromDecimal(decimal.NewFromFloat32(f))
}

// FromNumberString builds a number from its exact decimal spelling, falling
// back to zero on malformed input.
func FromNumberString(s string) Value {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return FromDecimal(decimal.Zero)
	}
	return FromDecimal(d)
}

// FromString builds a plain string value.
func FromString(s string) Value { return Value{kind: KindString, str: s} }

// FromTypedString builds a string value carrying a type tag. Tags "date" and
// "datetime" convert into DATE literals; any other tag is kept unspecified.
func FromTypedString(tag, text string) Value {
	return Value{kind: KindTypedString, tag: tag, str: text}
}

// FromTime builds a datetime-tagged string value in RFC 3339 spelling.
func FromTime(t time.Time) Value {
	return FromTypedString("datetime", t.Format(time.RFC3339))
}

// FromUUID builds a string value from a UUID.
func FromUUID(u uuid.UUID) Value { return FromString(u.String()) }

// FromArray builds an ordered array value.
func FromArray(items ...Value) Value {
	return Value{kind: KindArray, items: items}
}

// FromDict builds an ordered dictionary value.
func FromDict(pairs ...Pair) Value {
	return Value{kind: KindDict, pairs: pairs}
}

// Bool returns the boolean payload; meaningful only for KindBool.
func (v Value) Bool() bool { return v.b }

// Number returns the decimal payload; meaningful only for KindNumber.
func (v Value) Number() decimal.Decimal { return v.num }

// Text returns the string payload of KindString and KindTypedString.
func (v Value) Text() string { return v.str }

// Tag returns the type tag of KindTypedString.
func (v Value) Tag() string { return v.tag }

// Items returns the elements of KindArray.
func (v Value) Items() []Value { return v.items }

// Pairs returns the entries of KindDict.
func (v Value) Pairs() []Pair { return v.pairs }

// Expr converts the value into a fresh literal expression node. The
// conversion is total: every variant maps to exactly one node shape.
func (v Value) Expr() sqlast.Expr {
	switch v.kind {
	case KindBool:
		return &sqlast.Literal{Val: v.b}
	case KindNumber:
		return &sqlast.Literal{Val: v.num}
	case KindString:
		return &sqlast.Literal{Val: v.str}
	case KindTypedString:
		typ := sqlast.TypeUnspecified
		if v.tag == "date" || v.tag == "datetime" {
			typ = sqlast.TypeDate
		}
		return &sqlast.TypedLiteral{Type: typ, Text: v.str}
	case KindArray:
		arr := &sqlast.ArrayExpr{Elems: make([]sqlast.Expr, len(v.items))}
		for i, it := range v.items {
			arr.Elems[i] = it.Expr()
		}
		return arr
	case KindDict:
		m := &sqlast.MapExpr{Entries: make([]sqlast.MapEntry, len(v.pairs))}
		for i, p := range v.pairs {
			m.Entries[i] = sqlast.MapEntry{Key: p.Key.Expr(), Value: p.Value.Expr()}
		}
		return m
	default:
		return &sqlast.Literal{Val: nil}
	}
}
