package metadata

const (
	/** @brief The default texture name. */
	DEFAULT_TEXTURE_NAME string = "default"
	/** @brief The default diffuse texture name. */
	DEFAULT_DIFFUSE_TEXTURE_NAME string = "default_DIFF"
	/** @brief The default specular texture name. */
	DEFAULT_SPECULAR_TEXTURE_NAME string = "default_SPEC"
	/** @brief The default normal texture name. */
	DEFAULT_NORMAL_TEXTURE_NAME string = "default_NORM"
)

// DefaultTextureImages generates the pixels of the built-in textures, keyed by name.
// This is done in code to eliminate asset dependencies.
func DefaultTextureImages() map[string]*ImageResourceData {
	const texDimension = 256
	const channels = 4

	// NOTE: Create default texture, a 256x256 blue/white checkerboard pattern.
	pixels := make([]uint8, texDimension*texDimension*channels)
	for i := range pixels {
		pixels[i] = 255
	}
	for row := 0; row < texDimension; row++ {
		for col := 0; col < texDimension; col++ {
			index := (row*texDimension + col) * channels
			if (row%2 != 0) == (col%2 != 0) {
				pixels[index+0] = 0
				pixels[index+1] = 0
			}
		}
	}

	// Default diffuse map is all white.
	diffPixels := make([]uint8, 16*16*channels)
	for i := range diffPixels {
		diffPixels[i] = 255
	}

	// Default spec map is black (no specular)
	specPixels := make([]uint8, 16*16*channels)
	for i := 3; i < len(specPixels); i += channels {
		specPixels[i] = 255
	}

	normalPixels := make([]uint8, 16*16*channels)
	for i := 0; i < len(normalPixels); i += channels {
		// Set blue, z-axis by default and alpha.
		normalPixels[i+0] = 128
		normalPixels[i+1] = 128
		normalPixels[i+2] = 255
		normalPixels[i+3] = 255
	}

	return map[string]*ImageResourceData{
		DEFAULT_TEXTURE_NAME:          {Width: texDimension, Height: texDimension, Pixels: pixels},
		DEFAULT_DIFFUSE_TEXTURE_NAME:  {Width: 16, Height: 16, Pixels: diffPixels},
		DEFAULT_SPECULAR_TEXTURE_NAME: {Width: 16, Height: 16, Pixels: specPixels},
		DEFAULT_NORMAL_TEXTURE_NAME:   {Width: 16, Height: 16, Pixels: normalPixels},
	}
}
