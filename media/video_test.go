package media

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingDecoder struct {
	err error
}

func (d failingDecoder) Frames(context.Context, []byte) ([]image.Image, error) {
	return nil, d.err
}

func TestVideoHandleResolve(t *testing.T) {
	asset := &VideoAsset{
		Frames:   []image.Image{image.NewRGBA(image.Rect(0, 0, 1, 1))},
		Location: "memory",
	}
	resolved, err := FromAsset(asset).Resolve(context.Background(), nil)
	assert.NoError(t, err)
	assert.Same(t, asset, resolved)
}

func TestVideoHandleNilAsset(t *testing.T) {
	_, err := FromAsset(nil).Resolve(context.Background(), nil)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestVideoReferenceMissing(t *testing.T) {
	_, err := VideoFromURL("/nonexistent/clip.mp4").Resolve(context.Background(), nil)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "/nonexistent/clip.mp4", loadErr.Location)
}

func TestVideoReferenceDecoderFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	assert.NoError(t, os.WriteFile(path, []byte("not a real video"), 0o600))

	dec := failingDecoder{err: errors.New("no decodable stream")}
	_, err := VideoFromURL(path).Resolve(context.Background(), dec)
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.Equal(t, path, loadErr.Location)
	assert.True(t, errors.Is(err, dec.err))
}

func TestFFmpegDecoderEmptyData(t *testing.T) {
	_, err := DefaultFrameDecoder().Frames(context.Background(), nil)
	assert.Error(t, err)
}
