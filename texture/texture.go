package texture

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/richinsley/gotriangle/graphics"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadError reports an image file that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load texture %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Texture is a 2D RGBA8 image in device memory, read-only after Load.
type Texture struct {
	dev    graphics.Device
	id     uint32
	width  int
	height int
}

// Load decodes the image at path and uploads it with mipmaps. Decoding
// happens before any device object is allocated, so a LoadError never
// leaves a texture handle behind.
func Load(dev graphics.Device, path string, sampler Sampler) (*Texture, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	rgba := clone.AsRGBA(img)
	if sampler.FlipY {
		rgba = transform.FlipV(rgba)
	}
	width := rgba.Rect.Dx()
	height := rgba.Rect.Dy()

	t := &Texture{dev: dev, width: width, height: height}
	t.id = dev.GenTexture()
	dev.BindTexture2D(t.id)
	dev.TexParameters2D(sampler.WrapS, sampler.WrapT, sampler.MinFilter, sampler.MagFilter)
	dev.TexImage2DRGBA(int32(width), int32(height), tightPixels(rgba))
	dev.GenerateMipmap2D()
	dev.BindTexture2D(0)

	log.Printf("Loaded texture %s (%dx%d)", path, width, height)
	return t, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("image is empty")
	}
	return img, nil
}

// tightPixels returns the pixel rows without any stride padding.
func tightPixels(img *image.RGBA) []byte {
	rowSize := img.Rect.Dx() * 4
	if img.Stride == rowSize {
		return img.Pix[:rowSize*img.Rect.Dy()]
	}
	out := make([]byte, 0, rowSize*img.Rect.Dy())
	for y := 0; y < img.Rect.Dy(); y++ {
		out = append(out, img.Pix[y*img.Stride:y*img.Stride+rowSize]...)
	}
	return out
}

// Use binds the texture to texture unit 0.
func (t *Texture) Use() {
	t.dev.ActiveTexture(0)
	t.dev.BindTexture2D(t.id)
}

func (t *Texture) ID() uint32 {
	return t.id
}

func (t *Texture) Width() int {
	return t.width
}

func (t *Texture) Height() int {
	return t.height
}

// Destroy releases the texture handle.
func (t *Texture) Destroy() {
	t.dev.DeleteTexture(t.id)
	t.id = 0
}
