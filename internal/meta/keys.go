package meta

import "sync"

// Key is an interned metadata attribute name.
type Key uint16

// Interner hands out one Key per unique attribute name. It is append-only:
// keys are never released or renumbered.
type Interner struct {
	mu    sync.RWMutex
	index map[string]Key
	names []string
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	return &Interner{index: make(map[string]Key)}
}

// Index returns the key for name, allocating one on first use.
func (in *Interner) Index(name string) Key {
	in.mu.RLock()
	k, ok := in.index[name]
	in.mu.RUnlock()
	if ok {
		return k
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if k, ok := in.index[name]; ok {
		return k
	}
	k = Key(len(in.names))
	in.names = append(in.names, name)
	in.index[name] = k
	return k
}

// Lookup returns the key for name without allocating.
func (in *Interner) Lookup(name string) (Key, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	k, ok := in.index[name]
	return k, ok
}

// NameOf returns the name a key was issued for, or "" for an unknown key.
func (in *Interner) NameOf(k Key) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(k) >= len(in.names) {
		return ""
	}
	return in.names[k]
}

// Len reports how many keys have been issued.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.names)
}

var keys = NewInterner()

// Index interns name in the process-wide interner.
func Index(name string) Key { return keys.Index(name) }

// Lookup finds name in the process-wide interner without allocating.
func Lookup(name string) (Key, bool) { return keys.Lookup(name) }

// NameOf resolves a key issued by the process-wide interner.
func NameOf(k Key) string { return keys.NameOf(k) }

// Well-known attributes of track, route and waypoint documents.
var (
	Elevation   = Index("ele")
	Time        = Index("time")
	Color       = Index("color")
	Status      = Index("status")
	Link        = Index("link")
	Description = Index("desc")
	Comment     = Index("cmt")
	Symbol      = Index("sym")
	Type        = Index("type")
)
