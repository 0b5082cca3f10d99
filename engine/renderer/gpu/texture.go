package gpu

import "cmp"

/**
 * @brief Represents various types of textures.
 */
type TextureTarget int

const (
	/** @brief A standard two-dimensional texture. */
	TextureTarget2D TextureTarget = iota
	/** @brief A cube texture, used for cubemaps. */
	TextureTargetCube
)

/** @brief Represents supported texture filtering modes. FilterDefault keeps the current mode. */
type TextureFilter int

const (
	FilterDefault TextureFilter = iota
	/** @brief Nearest-neighbor filtering. */
	FilterNearest
	/** @brief Linear (i.e. bilinear) filtering.*/
	FilterLinear
	FilterMipMapNearestNearest
	FilterMipMapLinearNearest
	FilterMipMapNearestLinear
	FilterMipMapLinearLinear
)

/** @brief Represents supported texture wrap modes. WrapDefault keeps the current mode. */
type TextureWrap int

const (
	WrapDefault TextureWrap = iota
	WrapRepeat
	WrapMirroredRepeat
	WrapClampToEdge
)

// TextureParameter names a sampler parameter set through Backend.TexParameter.
type TextureParameter int

const (
	TextureParamMinFilter TextureParameter = iota
	TextureParamMagFilter
	TextureParamWrapU
	TextureParamWrapV
)

/**
 * @brief Represents a texture living on the GPU.
 * The sampler state is mirrored so that redundant parameter calls can be skipped.
 */
type Texture struct {
	/** @brief The backend texture object. */
	Handle uint32
	/** @brief The texture type. */
	Target TextureTarget
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Width. */
	Width int
	/** @brief The texture Height. */
	Height int

	minFilter TextureFilter
	magFilter TextureFilter
	uWrap     TextureWrap
	vWrap     TextureWrap
}

// NewTexture wraps a backend texture object. New textures sample with nearest
// filtering and clamp to edge, matching what backends create them with.
func NewTexture(handle uint32, target TextureTarget, name string, width, height int) *Texture {
	return &Texture{
		Handle:    handle,
		Target:    target,
		Name:      name,
		Width:     width,
		Height:    height,
		minFilter: FilterNearest,
		magFilter: FilterNearest,
		uWrap:     WrapClampToEdge,
		vWrap:     WrapClampToEdge,
	}
}

// Bind makes the texture resident in the given texture unit.
func (t *Texture) Bind(b Backend, unit int) {
	b.ActiveTexture(unit)
	b.BindTexture(t)
}

// SetWrap sets the wrap modes of the texture, which must be bound to the
// active texture unit. Unchanged modes are skipped unless force is set.
func (t *Texture) SetWrap(b Backend, u, v TextureWrap, force bool) {
	if u != WrapDefault && (force || t.uWrap != u) {
		b.TexParameter(t, TextureParamWrapU, int(u))
		t.uWrap = u
	}
	if v != WrapDefault && (force || t.vWrap != v) {
		b.TexParameter(t, TextureParamWrapV, int(v))
		t.vWrap = v
	}
}

// SetFilter sets the filter modes of the texture, which must be bound to the
// active texture unit. Unchanged modes are skipped unless force is set.
func (t *Texture) SetFilter(b Backend, min, mag TextureFilter, force bool) {
	if min != FilterDefault && (force || t.minFilter != min) {
		b.TexParameter(t, TextureParamMinFilter, int(min))
		t.minFilter = min
	}
	if mag != FilterDefault && (force || t.magFilter != mag) {
		b.TexParameter(t, TextureParamMagFilter, int(mag))
		t.magFilter = mag
	}
}

func (t *Texture) MinFilter() TextureFilter { return t.minFilter }
func (t *Texture) MagFilter() TextureFilter { return t.magFilter }
func (t *Texture) UWrap() TextureWrap       { return t.uWrap }
func (t *Texture) VWrap() TextureWrap       { return t.vWrap }

/**
 * @brief A structure which maps a texture to the sampler state
 * it should be used with.
 */
type TextureDescriptor struct {
	/** @brief A pointer to a Texture. */
	Texture *Texture
	/** @brief Texture filtering mode for minification. */
	MinFilter TextureFilter
	/** @brief Texture filtering mode for magnification. */
	MagFilter TextureFilter
	/** @brief The repeat mode on the U axis (or X, or S) */
	UWrap TextureWrap
	/** @brief The repeat mode on the V axis (or Y, or T) */
	VWrap TextureWrap
}

// NewTextureDescriptor describes texture with the default sampler state.
func NewTextureDescriptor(texture *Texture) TextureDescriptor {
	return TextureDescriptor{Texture: texture}
}

// Equal reports whether both descriptors reference the same texture with the same sampler state.
func (d TextureDescriptor) Equal(other TextureDescriptor) bool {
	return d == other
}

// Compare orders descriptors by texture handle, target and then sampler state.
func (d TextureDescriptor) Compare(other TextureDescriptor) int {
	if d.Texture != other.Texture {
		if d.Texture == nil {
			return -1
		}
		if other.Texture == nil {
			return 1
		}
		if c := cmp.Compare(d.Texture.Handle, other.Texture.Handle); c != 0 {
			return c
		}
		if c := cmp.Compare(d.Texture.Target, other.Texture.Target); c != 0 {
			return c
		}
	}
	if c := cmp.Compare(d.MinFilter, other.MinFilter); c != 0 {
		return c
	}
	if c := cmp.Compare(d.MagFilter, other.MagFilter); c != 0 {
		return c
	}
	if c := cmp.Compare(d.UWrap, other.UWrap); c != 0 {
		return c
	}
	return cmp.Compare(d.VWrap, other.VWrap)
}

// Hash returns a content hash of the descriptor.
func (d TextureDescriptor) Hash() uint32 {
	h := uint32(0)
	if d.Texture != nil {
		h = d.Texture.Handle*811 + uint32(d.Texture.Target)
	}
	h = 811*h + uint32(d.MinFilter)
	h = 811*h + uint32(d.MagFilter)
	h = 811*h + uint32(d.UWrap)
	h = 811*h + uint32(d.VWrap)
	return h
}
