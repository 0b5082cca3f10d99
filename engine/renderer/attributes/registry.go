package attributes

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/spaghettifunk/anima-g3d/engine/core"
)

// MaxTypes is the number of distinct attribute types a registry can hold.
const MaxTypes int = 64

// Type identifies an attribute kind. Every registered type owns exactly one
// bit, so types can be OR-ed together into a mask.
type Type uint64

// Index returns the bit index of a single-bit type.
func (t Type) Index() int {
	return bits.TrailingZeros64(uint64(t))
}

/**
 * @brief Maps attribute aliases to type bits. Registration is
 * append-only and idempotent per alias.
 */
type Registry struct {
	mu      sync.RWMutex
	aliases []string
}

func NewRegistry() *Registry {
	return &Registry{aliases: make([]string, 0, MaxTypes)}
}

// DefaultRegistry holds the built-in attribute types.
var DefaultRegistry = NewRegistry()

// Register returns the type for alias, allocating the next free bit on first use.
func (r *Registry) Register(alias string) (Type, error) {
	if t, ok := r.TypeOf(alias); ok {
		return t, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.aliases {
		if a == alias {
			return Type(1) << uint(i), nil
		}
	}
	if len(r.aliases) >= MaxTypes {
		err := fmt.Errorf("register %q: %w", alias, core.ErrTooManyAttributeTypes)
		core.LogError("%s", err)
		return 0, err
	}
	r.aliases = append(r.aliases, alias)
	return Type(1) << uint(len(r.aliases)-1), nil
}

// TypeOf looks up a registered alias.
func (r *Registry) TypeOf(alias string) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, a := range r.aliases {
		if a == alias {
			return Type(1) << uint(i), true
		}
	}
	return 0, false
}

// Alias returns the alias a single-bit type was registered with.
func (r *Registry) Alias(t Type) (string, bool) {
	if bits.OnesCount64(uint64(t)) != 1 {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := t.Index()
	if idx >= len(r.aliases) {
		return "", false
	}
	return r.aliases[idx], true
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.aliases)
}

// Register adds alias to the DefaultRegistry.
func Register(alias string) (Type, error) {
	return DefaultRegistry.Register(alias)
}

// MustRegister is Register for package-level type declarations.
func MustRegister(alias string) Type {
	t, err := DefaultRegistry.Register(alias)
	if err != nil {
		panic(err)
	}
	return t
}
