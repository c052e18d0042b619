package meta

import (
	"reflect"
	"sort"
	"time"
)

type entry struct {
	key   Key
	value any
}

// Store is a sparse attribute map attached to a single node. Entries are kept
// sorted by key. A nil value is never stored: setting nil clears the key, so
// "cleared" and "never set" are indistinguishable.
type Store struct {
	entries []entry
}

func (s *Store) find(k Key) (int, bool) {
	i := sort.Search(len(s.entries), func(i int) bool { return s.entries[i].key >= k })
	return i, i < len(s.entries) && s.entries[i].key == k
}

// Get returns the value stored for k.
func (s *Store) Get(k Key) (any, bool) {
	if s == nil {
		return nil, false
	}
	if i, ok := s.find(k); ok {
		return s.entries[i].value, true
	}
	return nil, false
}

// Value returns the value stored for k, or nil.
func (s *Store) Value(k Key) any {
	v, _ := s.Get(k)
	return v
}

// Set stores v under k. A nil v removes the entry.
func (s *Store) Set(k Key, v any) {
	i, ok := s.find(k)
	switch {
	case v == nil && ok:
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	case v == nil:
	case ok:
		s.entries[i].value = v
	default:
		s.entries = append(s.entries, entry{})
		copy(s.entries[i+1:], s.entries[i:])
		s.entries[i] = entry{key: k, value: v}
	}
}

// GetNamed looks an attribute up by name.
func (s *Store) GetNamed(name string) (any, bool) {
	k, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	return s.Get(k)
}

// SetNamed stores an attribute by name, interning the name if needed.
func (s *Store) SetNamed(name string, v any) {
	s.Set(Index(name), v)
}

// Time returns the timestamp attribute, if one is set.
func (s *Store) Time() (time.Time, bool) {
	t, ok := s.Value(Time).(time.Time)
	return t, ok
}

// Len reports the number of attributes present.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Keys returns the present keys in ascending order.
func (s *Store) Keys() []Key {
	if s == nil {
		return nil
	}
	out := make([]Key, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.key
	}
	return out
}

// Names returns the attribute names present, in key order.
func (s *Store) Names() []string {
	keys := s.Keys()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = NameOf(k)
	}
	return out
}

// Map returns the attributes keyed by name.
func (s *Store) Map() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for _, e := range s.entries {
		out[NameOf(e.key)] = e.value
	}
	return out
}

// Clone returns an independent copy. Values are copied shallowly.
func (s *Store) Clone() Store {
	if s == nil || len(s.entries) == 0 {
		return Store{}
	}
	return Store{entries: append([]entry(nil), s.entries...)}
}

// Equal reports whether both stores hold the same keys and values.
func (s *Store) Equal(o *Store) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		a, b := s.entries[i], o.entries[i]
		if a.key != b.key || !ValueEqual(a.value, b.value) {
			return false
		}
	}
	return true
}

// ValueEqual compares two attribute values. Timestamps compare by instant.
func ValueEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}
