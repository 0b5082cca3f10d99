package renderer

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/math"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
)

// MaxTextureUnits caps the number of texture units a binder manages.
const MaxTextureUnits int = 32

// BindPolicy selects which texture unit gets evicted when a texture is not resident.
type BindPolicy int

const (
	// BindRoundRobin evicts the unit after the most recently bound one.
	BindRoundRobin BindPolicy = iota
	// BindLRU evicts the least recently used unit.
	BindLRU
)

// ParseBindPolicy accepts "lru" and "roundrobin".
func ParseBindPolicy(s string) (BindPolicy, error) {
	switch s {
	case "lru", "":
		return BindLRU, nil
	case "roundrobin":
		return BindRoundRobin, nil
	}
	return BindLRU, fmt.Errorf("unknown texture bind policy %q", s)
}

func (p BindPolicy) String() string {
	if p == BindRoundRobin {
		return "roundrobin"
	}
	return "lru"
}

/**
 * @brief Maps textures onto a bounded set of texture units, skipping
 * bind calls for textures that are already resident.
 */
type TextureBinder struct {
	backend gpu.Backend
	policy  BindPolicy
	offset  int
	count   int

	textures []*gpu.Texture
	// LRU order of unit indices, most recently used first.
	unitsLRU []int
	// Round robin cursor.
	current int

	bindCount  int
	reuseCount int
}

// NewTextureBinder manages the units [offset, offset+count). A count of zero
// or less uses every unit the backend offers past offset, up to MaxTextureUnits.
func NewTextureBinder(backend gpu.Backend, policy BindPolicy, offset, count int) (*TextureBinder, error) {
	available := math.Clamp(backend.MaxTextureUnits()-offset, 0, MaxTextureUnits)
	if count <= 0 {
		count = available
	}
	if offset < 0 || count > available || count <= 0 {
		err := fmt.Errorf("illegal texture unit range: offset %d count %d with %d units available", offset, count, backend.MaxTextureUnits())
		core.LogError("%s", err)
		return nil, err
	}
	tb := &TextureBinder{
		backend:  backend,
		policy:   policy,
		offset:   offset,
		count:    count,
		textures: make([]*gpu.Texture, count),
		unitsLRU: make([]int, count),
	}
	for i := range tb.unitsLRU {
		tb.unitsLRU[i] = i
	}
	return tb, nil
}

// Begin forgets all resident textures.
func (tb *TextureBinder) Begin() {
	for i := range tb.textures {
		tb.textures[i] = nil
		tb.unitsLRU[i] = i
	}
	tb.current = 0
}

// End leaves texture unit 0 active.
func (tb *TextureBinder) End() {
	tb.backend.ActiveTexture(0)
}

// Bind makes the described texture resident, applies its sampler state and
// returns the absolute unit index it occupies.
func (tb *TextureBinder) Bind(desc gpu.TextureDescriptor) int {
	t := desc.Texture
	if t == nil {
		return -1
	}
	var idx int
	var reused bool
	switch tb.policy {
	case BindRoundRobin:
		idx, reused = tb.bindRoundRobin(t)
	default:
		idx, reused = tb.bindLRU(t)
	}
	unit := tb.offset + idx
	if reused {
		tb.reuseCount++
		tb.backend.ActiveTexture(unit)
	} else {
		tb.bindCount++
	}
	t.SetWrap(tb.backend, desc.UWrap, desc.VWrap, false)
	t.SetFilter(tb.backend, desc.MinFilter, desc.MagFilter, false)
	return unit
}

func (tb *TextureBinder) bindRoundRobin(t *gpu.Texture) (int, bool) {
	for i := 0; i < tb.count; i++ {
		idx := (tb.current + i) % tb.count
		if tb.textures[idx] == t {
			return idx, true
		}
	}
	tb.current = (tb.current + 1) % tb.count
	tb.textures[tb.current] = t
	t.Bind(tb.backend, tb.offset+tb.current)
	return tb.current, false
}

func (tb *TextureBinder) bindLRU(t *gpu.Texture) (int, bool) {
	reused := false
	i := 0
	for ; i < tb.count; i++ {
		idx := tb.unitsLRU[i]
		if tb.textures[idx] == t {
			reused = true
			break
		}
		if tb.textures[idx] == nil {
			break
		}
	}
	if i >= tb.count {
		i = tb.count - 1
	}
	idx := tb.unitsLRU[i]
	copy(tb.unitsLRU[1:i+1], tb.unitsLRU[:i])
	tb.unitsLRU[0] = idx
	if !reused {
		tb.textures[idx] = t
		t.Bind(tb.backend, tb.offset+idx)
	}
	return idx, reused
}

// BindCount is the number of actual texture binds since the last reset.
func (tb *TextureBinder) BindCount() int { return tb.bindCount }

// ReuseCount is the number of binds satisfied by an already resident texture.
func (tb *TextureBinder) ReuseCount() int { return tb.reuseCount }

func (tb *TextureBinder) ResetCounts() {
	tb.bindCount = 0
	tb.reuseCount = 0
}

func (tb *TextureBinder) Policy() BindPolicy { return tb.policy }

// Units returns how many texture units the binder manages.
func (tb *TextureBinder) Units() int { return tb.count }
