package model

// Record is an ordered key/value view of one manifest row.
//
// Keys keep the column order they were added in, so writing a Record back
// out reproduces the source layout. Unknown columns are preserved as-is.
// The zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord builds a record from parallel key and value slices.
//
// Missing values are stored as empty strings. Duplicate keys keep the first
// position and the last value.
func NewRecord(keys, values []string) Record {
	var r Record
	for i, k := range keys {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		r.Set(k, v)
	}
	return r
}

// Set stores value under key, appending key if it is new.
func (r *Record) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it is present.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value for key, or an empty string.
func (r Record) Value(key string) string {
	return r.values[key]
}

// Keys returns the column names in order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Values returns the values aligned with Keys.
func (r Record) Values() []string {
	out := make([]string, len(r.keys))
	for i, k := range r.keys {
		out[i] = r.values[k]
	}
	return out
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	var c Record
	for _, k := range r.keys {
		c.Set(k, r.values[k])
	}
	return c
}
