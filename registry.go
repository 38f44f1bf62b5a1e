package jfif

import "sync"

// Factory constructs a zero-value instance of a segment type, ready for
// ReadBody to populate.
type Factory func() Segment

type typeEntry struct {
	hasLength bool
	factory   Factory
}

// Registry maps a (marker) or (marker, identifier) pair to the factory
// that knows how to read and write that segment's body. It mirrors the
// teacher's fixed marker-to-handler dispatch in jpg.app0/jpg.app1, made
// extensible and data-driven instead of a hand-written switch.
//
// A Registry starts open for registration and can be Frozen once built;
// DefaultRegistry returns one already frozen with the built-in types.
type Registry struct {
	mu             sync.RWMutex
	noIdentifier   map[Marker]typeEntry
	withIdentifier map[Marker]map[string]typeEntry
	frozen         bool
}

// NewRegistry returns an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{
		noIdentifier:   make(map[Marker]typeEntry),
		withIdentifier: make(map[Marker]map[string]typeEntry),
	}
}

// Register adds factory under the key returned by a freshly constructed
// sample segment. It fails if the registry is frozen or if that key is
// already registered.
func (r *Registry) Register(factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return NewError(ErrTypeMismatch, "registry is frozen, cannot register new segment types")
	}
	sample := factory()
	key := sample.Key()
	entry := typeEntry{hasLength: sample.HasLength(), factory: factory}

	if !key.HasIdentifier {
		if _, exists := r.noIdentifier[key.Marker]; exists {
			return NewError(ErrTypeMismatch, "marker %s already has a registered no-identifier type", key.Marker)
		}
		r.noIdentifier[key.Marker] = entry
		return nil
	}
	byID, ok := r.withIdentifier[key.Marker]
	if !ok {
		byID = make(map[string]typeEntry)
		r.withIdentifier[key.Marker] = byID
	}
	if _, exists := byID[key.Identifier]; exists {
		return NewError(ErrTypeMismatch, "marker %s identifier %q is already registered", key.Marker, key.Identifier)
	}
	byID[key.Identifier] = entry
	return nil
}

// Freeze prevents any further registration. Once frozen a Registry is
// safe for concurrent lookups from multiple goroutines.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// HasIdentifier reports whether marker has at least one registered
// identified type, meaning the reader must look for an identifier string
// at the start of the body before it can pick a factory.
func (r *Registry) HasIdentifier(marker Marker) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byID, ok := r.withIdentifier[marker]
	return ok && len(byID) > 0
}

// LookupNoIdentifier returns the factory registered for marker with no
// identifier, if any.
func (r *Registry) LookupNoIdentifier(marker Marker) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.noIdentifier[marker]
	if !ok {
		return nil, false
	}
	return e.factory, true
}

// LookupIdentified returns the factory registered for (marker, identifier).
func (r *Registry) LookupIdentified(marker Marker, identifier string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byID, ok := r.withIdentifier[marker]
	if !ok {
		return nil, false
	}
	e, ok := byID[identifier]
	if !ok {
		return nil, false
	}
	return e.factory, true
}

var defaultRegistryOnce sync.Once
var defaultRegistry *Registry

// DefaultRegistry returns the package-wide frozen Registry pre-loaded with
// every built-in segment type (SOI, EOI, SOS, JFIF/JFXX, Exif/XMP/
// Extended-XMP).
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		for _, f := range builtinFactories {
			if err := r.Register(f); err != nil {
				panic(err) // programmer error: built-in keys must never collide
			}
		}
		r.Freeze()
		defaultRegistry = r
	})
	return defaultRegistry
}
