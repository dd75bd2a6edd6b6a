package sqlbind

import "strconv"

// Parameters maps a 1-based placeholder index to a bound value.
type Parameters interface {
	// Get returns the value bound at 1-based index i. Index 0 or any index
	// beyond the bound count fails with a NotFound error carrying the
	// placeholder text for i.
	Get(i int) (Value, error)
}

// ParameterSet is the default Parameters implementation: an ordered,
// append-only list of bound values. The zero value is ready to use.
type ParameterSet struct {
	values []Value
}

// NewParameterSet builds a set from the given values in order.
func NewParameterSet(values ...Value) *ParameterSet {
	return &ParameterSet{values: values}
}

// Add appends a value and returns its zero-based storage position.
func (ps *ParameterSet) Add(v Value) int {
	pos := len(ps.values)
	ps.values = append(ps.values, v)
	return pos
}

// Len returns the number of bound values.
func (ps *ParameterSet) Len() int { return len(ps.values) }

// Get implements Parameters. Values are immutable, so the same bound value
// may be handed out for multiple placeholder sites.
func (ps *ParameterSet) Get(i int) (Value, error) {
	if i > 0 && i <= len(ps.values) {
		return ps.values[i-1], nil
	}
	return Value{}, notFoundErr("$" + strconv.Itoa(i))
}
