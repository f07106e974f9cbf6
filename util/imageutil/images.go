package imageutil

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Resize kernels.
const (
	ResizeBilinear = iota
	ResizeNearestNeighbor
	ResizeApproxBilinear
	ResizeCatmullrom
)

var kernels = map[int]draw.Interpolator{
	ResizeBilinear:        draw.BiLinear,
	ResizeNearestNeighbor: draw.NearestNeighbor,
	ResizeApproxBilinear:  draw.ApproxBiLinear,
	ResizeCatmullrom:      draw.CatmullRom,
}

// Resize returns an image scaled to exactly newW x newH.
func Resize(img image.Image, newW, newH int, method int) *image.RGBA {
	kernel, ok := kernels[method]
	if !ok {
		kernel = draw.BiLinear
	}
	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	kernel.Scale(dst, dst.Rect, img, img.Bounds(), draw.Over, nil)
	return dst
}

// Composite returns an image with the alpha channel removed by drawing over a background color.
func Composite(img image.Image, background color.Color) *image.RGBA {
	dst := image.NewRGBA(img.Bounds())
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Over)
	return dst
}

type PreprocessStep interface {
	Apply(img image.Image) (image.Image, error)
}

// ResizeShortestSidePreprocessor scales so the shortest side matches targetSize,
// preserving aspect ratio.
type ResizeShortestSidePreprocessor struct {
	targetSize int
	method     int
}

func ResizeShortestSideStep(targetSize int) *ResizeShortestSidePreprocessor {
	return &ResizeShortestSidePreprocessor{targetSize: targetSize, method: ResizeBilinear}
}

func (s *ResizeShortestSidePreprocessor) Apply(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	var newW, newH int
	if w < h {
		newW = s.targetSize
		newH = int(float32(h) * float32(s.targetSize) / float32(w))
	} else {
		newH = s.targetSize
		newW = int(float32(w) * float32(s.targetSize) / float32(h))
	}
	return Resize(img, newW, newH, s.method), nil
}

type ResizePreprocessor struct {
	targetWidth  int
	targetHeight int
	method       int
}

func ResizeStep(targetWidth, targetHeight int) *ResizePreprocessor {
	return &ResizePreprocessor{targetWidth: targetWidth, targetHeight: targetHeight, method: ResizeBilinear}
}

func (s *ResizePreprocessor) Apply(img image.Image) (image.Image, error) {
	return Resize(img, s.targetWidth, s.targetHeight, s.method), nil
}

type CenterCropPreprocessor struct {
	targetWidth  int
	targetHeight int
}

func CenterCropStep(targetWidth, targetHeight int) *CenterCropPreprocessor {
	return &CenterCropPreprocessor{targetWidth: targetWidth, targetHeight: targetHeight}
}

func (s *CenterCropPreprocessor) Apply(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	x0 := bounds.Min.X + (bounds.Dx()-s.targetWidth)/2
	y0 := bounds.Min.Y + (bounds.Dy()-s.targetHeight)/2
	rect := image.Rect(0, 0, s.targetWidth, s.targetHeight)
	dst := image.NewRGBA(rect)
	for y := 0; y < s.targetHeight; y++ {
		for x := 0; x < s.targetWidth; x++ {
			dst.Set(x, y, img.At(x0+x, y0+y))
		}
	}
	return dst, nil
}
