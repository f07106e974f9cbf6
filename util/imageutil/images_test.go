package imageutil

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fill(img *image.RGBA, c color.RGBA) *image.RGBA {
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		for x := img.Rect.Min.X; x < img.Rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestResize(t *testing.T) {
	src := fill(image.NewRGBA(image.Rect(0, 0, 10, 6)), color.RGBA{R: 200, A: 255})
	dst := Resize(src, 5, 3, ResizeBilinear)
	assert.Equal(t, 5, dst.Bounds().Dx())
	assert.Equal(t, 3, dst.Bounds().Dy())
	assert.Equal(t, color.RGBA{R: 200, A: 255}, dst.RGBAAt(2, 1))
}

func TestResizeUnknownMethodFallsBack(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	dst := Resize(src, 2, 2, 99)
	assert.Equal(t, 2, dst.Bounds().Dx())
}

func TestResizeShortestSideStep(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out, err := ResizeShortestSideStep(25).Apply(src)
	assert.NoError(t, err)
	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 25, out.Bounds().Dy())
}

func TestCenterCropStep(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	src.SetRGBA(4, 4, color.RGBA{G: 255, A: 255})
	out, err := CenterCropStep(4, 4).Apply(src)
	assert.NoError(t, err)
	assert.Equal(t, 4, out.Bounds().Dx())
	// (4,4) in the source sits at (2,2) after cropping the 2-pixel border
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.(*image.RGBA).RGBAAt(2, 2))
}

func TestComposite(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	out := Composite(src, color.White)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(0, 0))
}
