package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

const crateMaterial = `
name = "crate"
diffuse_color = [0.8, 0.6, 0.4]
shininess = 8.0
cull_face = "back"
diffuse_map = "crate_diffuse"
`

func TestParseMaterial(t *testing.T) {
	cfg, err := ParseMaterial([]byte(crateMaterial))
	require.NoError(t, err)
	assert.Equal(t, "crate", cfg.Name)
	assert.Equal(t, []float32{0.8, 0.6, 0.4}, cfg.DiffuseColor)
	assert.Equal(t, float32(8), cfg.Shininess)
	assert.Equal(t, "back", cfg.CullFace)
	assert.Equal(t, "crate_diffuse", cfg.DiffuseMapName)

	_, err = ParseMaterial([]byte(`colour = "red"`))
	assert.Error(t, err)
	_, err = ParseMaterial([]byte(`shininess = "very"`))
	assert.Error(t, err)
}

func TestMaterialLoaderNamesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stone"+MaterialExtension)
	require.NoError(t, os.WriteFile(path, []byte(`shininess = 2.0`), 0o644))

	ml := &MaterialLoader{}
	res, err := ml.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "stone", res.Name)
	assert.Equal(t, metadata.ResourceTypeMaterial, res.Type)
	cfg, ok := res.Data.(*metadata.MaterialConfig)
	require.True(t, ok)
	assert.Equal(t, "stone", cfg.Name)

	require.NoError(t, ml.Unload(res))
	assert.Nil(t, res.Data)

	_, err = ml.Load(filepath.Join(dir, "missing"+MaterialExtension), nil)
	assert.Error(t, err)
}

func TestShaderLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.vert")
	src := "#version 410 core\nvoid main() {}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	res, err := (&ShaderLoader{}).Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "basic.vert", res.Name)
	assert.Equal(t, src, res.Data)
	assert.Equal(t, uint64(len(src)), res.DataSize)
}

func writePNG(t *testing.T, path string) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{B: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestTextureLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stripes.png")
	writePNG(t, path)

	tl := &TextureLoader{}
	res, err := tl.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "stripes", res.Name)
	assert.Equal(t, metadata.ResourceTypeImage, res.Type)
	data := res.Data.(*metadata.ImageResourceData)
	assert.Equal(t, 2, data.Width)
	assert.Equal(t, 2, data.Height)
	require.Len(t, data.Pixels, 16)
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[0:4])
	assert.Equal(t, []uint8{0, 0, 255, 255}, data.Pixels[8:12])

	res, err = tl.Load(path, &metadata.ImageResourceParams{FlipY: true})
	require.NoError(t, err)
	data = res.Data.(*metadata.ImageResourceData)
	assert.Equal(t, []uint8{0, 0, 255, 255}, data.Pixels[0:4])
	assert.Equal(t, []uint8{255, 0, 0, 255}, data.Pixels[8:12])

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o644))
	_, err = tl.Load(bad, nil)
	assert.Error(t, err)
}

func TestToRGBASubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})
	sub := img.SubImage(image.Rect(2, 2, 4, 4))

	data := ToRGBA(sub, false)
	assert.Equal(t, 2, data.Width)
	assert.Equal(t, 2, data.Height)
	assert.Equal(t, []uint8{0, 255, 0, 255}, data.Pixels[0:4])
}
