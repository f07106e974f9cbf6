package media

import (
	"bytes"
	"context"
	"image"
	"image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/promptkit/promptkit/util/fileutil"
)

// ColorSpace identifies the color space of a canonical image.
type ColorSpace string

const ColorSpaceSRGB ColorSpace = "sRGB"

// CanonicalImage is the single decoded representation every Image variant
// reduces to: packed RGBA, 8 bits per component, 4 bytes per pixel.
type CanonicalImage struct {
	*image.RGBA
	ColorSpace ColorSpace
}

func (c *CanonicalImage) Width() int       { return c.Rect.Dx() }
func (c *CanonicalImage) Height() int      { return c.Rect.Dy() }
func (c *CanonicalImage) BytesPerRow() int { return c.Stride }

// Image is a prompt image in one of three source encodings: an in-memory
// decoded image, a location reference, or a numeric tensor. Each value holds
// exactly one representation; conversion to the canonical form is deferred
// until Canonical is called and never mutates the source.
type Image interface {
	Canonical(ctx context.Context) (*CanonicalImage, error)
	isImage()
}

// Decoded wraps an image that is already in memory.
type Decoded struct {
	Image image.Image
}

func FromImage(img image.Image) Decoded { return Decoded{Image: img} }

func (Decoded) isImage() {}

func (d Decoded) Canonical(context.Context) (*CanonicalImage, error) {
	if d.Image == nil {
		return nil, &LoadError{Location: "<decoded image>"}
	}
	return canonicalize(d.Image), nil
}

// Reference points at an image by location. Bytes are fetched and decoded on
// demand; local paths, http(s) and s3 locations are all accepted.
type Reference struct {
	URL string
}

func FromURL(url string) Reference { return Reference{URL: url} }

func (Reference) isImage() {}

func (r Reference) Canonical(ctx context.Context) (*CanonicalImage, error) {
	b, err := fileutil.ReadBytes(ctx, r.URL)
	if err != nil {
		return nil, &LoadError{Location: r.URL, Err: err}
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, &LoadError{Location: r.URL, Err: err}
	}
	return canonicalize(img), nil
}

func canonicalize(img image.Image) *CanonicalImage {
	if rgba, ok := img.(*image.RGBA); ok {
		return &CanonicalImage{RGBA: rgba, ColorSpace: ColorSpaceSRGB}
	}
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return &CanonicalImage{RGBA: dst, ColorSpace: ColorSpaceSRGB}
}
