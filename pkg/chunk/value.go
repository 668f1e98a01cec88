package chunk

import "strconv"

// Value is the only runtime value type: a 32-bit float.
type Value float32

// String renders the value with the shortest representation that round-trips.
func (v Value) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
