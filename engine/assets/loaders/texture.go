package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

type TextureLoader struct{}

// Load decodes a png, jpeg, bmp or webp file into RGBA pixels.
func (tl *TextureLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	flip := false
	if p, ok := params.(*metadata.ImageResourceParams); ok && p != nil {
		flip = p.FlipY
	}

	// Open and decode the texture image file
	file, err := os.Open(path)
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		err = fmt.Errorf("decode %s: %w", path, err)
		core.LogError("%s", err)
		return nil, err
	}
	data := ToRGBA(img, flip)
	core.LogDebug("decoded %s image %s (%dx%d)", format, path, data.Width, data.Height)

	return &metadata.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     metadata.ResourceTypeImage,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (tl *TextureLoader) Unload(r *metadata.Resource) error {
	r.Data = nil
	return nil
}

// ToRGBA converts any image into tightly packed RGBA8 pixels.
func ToRGBA(img image.Image, flipY bool) *metadata.ImageResourceData {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	w, h := b.Dx(), b.Dy()
	pixels := make([]uint8, len(rgba.Pix))
	if flipY {
		row := 4 * w
		for y := 0; y < h; y++ {
			copy(pixels[y*row:(y+1)*row], rgba.Pix[(h-1-y)*row:(h-y)*row])
		}
	} else {
		copy(pixels, rgba.Pix)
	}
	return &metadata.ImageResourceData{Width: w, Height: h, Pixels: pixels}
}
