package media

import (
	"context"
	"fmt"
	"image"

	"gorgonia.org/tensor"

	"github.com/promptkit/promptkit/util/safeconv"
)

// Tensor wraps a rank-3 numeric tensor holding raw pixel data. The layout may
// be planar channel-first (C, H, W) or packed channel-last (H, W, C), with
// values either in normalized [0, 1] float range or in [0, 255].
type Tensor struct {
	Dense *tensor.Dense
}

func FromTensor(d *tensor.Dense) Tensor { return Tensor{Dense: d} }

func (Tensor) isImage() {}

// Canonical converts the tensor to the packed RGBA form. The normalization
// order is fixed: range scaling, then layout, then channel padding. A fresh
// buffer is always allocated; the source tensor is never written to.
func (t Tensor) Canonical(context.Context) (*CanonicalImage, error) {
	if t.Dense == nil {
		return nil, &ShapeError{Reason: "nil tensor"}
	}
	shape := []int(t.Dense.Shape())
	if len(shape) != 3 {
		return nil, &ShapeError{Shape: shape, Reason: fmt.Sprintf("expected 3 dimensions, got %d", len(shape))}
	}

	data, err := flatValues(t.Dense, shape)
	if err != nil {
		return nil, err
	}

	// Values with an elementwise maximum at or below 1.0 are treated as
	// normalized floats and scaled into byte range.
	maxValue := float32(0)
	for _, v := range data {
		if v > maxValue {
			maxValue = v
		}
	}
	if maxValue <= 1.0 {
		for i := range data {
			data[i] *= 255
		}
	}

	// A leading dimension of 3 or 4 marks a planar channel-first tensor;
	// anything else is assumed packed channel-last.
	var h, w, c int
	var at func(y, x, ch int) float32
	if shape[0] == 3 || shape[0] == 4 {
		c, h, w = shape[0], shape[1], shape[2]
		at = func(y, x, ch int) float32 { return data[ch*h*w+y*w+x] }
	} else {
		h, w, c = shape[0], shape[1], shape[2]
		at = func(y, x, ch int) float32 { return data[(y*w+x)*c+ch] }
	}

	if c != 3 && c != 4 {
		return nil, &ShapeError{Shape: shape, Reason: fmt.Sprintf("expected 3 or 4 channels, got %d", c)}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := rgba.PixOffset(x, y)
			rgba.Pix[i] = safeconv.ClampToByte(at(y, x, 0))
			rgba.Pix[i+1] = safeconv.ClampToByte(at(y, x, 1))
			rgba.Pix[i+2] = safeconv.ClampToByte(at(y, x, 2))
			if c == 4 {
				rgba.Pix[i+3] = safeconv.ClampToByte(at(y, x, 3))
			} else {
				rgba.Pix[i+3] = 255
			}
		}
	}
	return &CanonicalImage{RGBA: rgba, ColorSpace: ColorSpaceSRGB}, nil
}

// flatValues copies the tensor backing into a fresh float32 slice in
// row-major order, so later normalization steps cannot touch the source.
func flatValues(d *tensor.Dense, shape []int) ([]float32, error) {
	n := 1
	for _, s := range shape {
		n *= s
	}

	out := make([]float32, n)
	switch data := d.Data().(type) {
	case []float32:
		if len(data) != n {
			return nil, backingMismatch(shape, len(data), n)
		}
		copy(out, data)
	case []float64:
		if len(data) != n {
			return nil, backingMismatch(shape, len(data), n)
		}
		for i, v := range data {
			out[i] = float32(v)
		}
	case []int:
		if len(data) != n {
			return nil, backingMismatch(shape, len(data), n)
		}
		for i, v := range data {
			out[i] = float32(v)
		}
	case []int32:
		if len(data) != n {
			return nil, backingMismatch(shape, len(data), n)
		}
		for i, v := range data {
			out[i] = float32(v)
		}
	case []uint8:
		if len(data) != n {
			return nil, backingMismatch(shape, len(data), n)
		}
		for i, v := range data {
			out[i] = float32(v)
		}
	default:
		return nil, &ShapeError{Shape: shape, Reason: fmt.Sprintf("unsupported element type %T", data)}
	}
	return out, nil
}

func backingMismatch(shape []int, got, want int) error {
	return &ShapeError{Shape: shape, Reason: fmt.Sprintf("backing has %d elements, shape requires %d", got, want)}
}
