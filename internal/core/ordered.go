package core

// orderedValues maps columns to values and remembers first-insertion order.
// Setting an existing column replaces its value in place.
type orderedValues struct {
	keys  []string
	index map[string]int
	vals  []any
}

func (o *orderedValues) set(column string, value any) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[column]; ok {
		o.vals[i] = value
		return
	}
	o.index[column] = len(o.keys)
	o.keys = append(o.keys, column)
	o.vals = append(o.vals, value)
}

func (o *orderedValues) get(column string) (any, bool) {
	i, ok := o.index[column]
	if !ok {
		return nil, false
	}
	return o.vals[i], true
}

func (o *orderedValues) len() int {
	return len(o.keys)
}

// columns returns the columns in insertion order. The slice is shared.
func (o *orderedValues) columns() []string {
	return o.keys
}

// values returns the values in insertion order. The slice is shared.
func (o *orderedValues) values() []any {
	return o.vals
}
