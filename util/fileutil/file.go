package fileutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/option"
	_ "github.com/viant/afsc/s3"
)

var fileSystem = afs.New()

// ReadBytes reads the full contents of a location. The location may be a
// local path, an http(s) URL or an s3 URL; scheme handling is delegated to
// the afs service.
func ReadBytes(ctx context.Context, location string) (data []byte, err error) {
	file, err := fileSystem.OpenURL(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	buf := &bytes.Buffer{}
	if _, readErr := io.Copy(buf, file); readErr != nil {
		return nil, readErr
	}
	return buf.Bytes(), err
}

func Exists(ctx context.Context, location string) (bool, error) {
	return fileSystem.Exists(ctx, location)
}

func NewWriter(ctx context.Context, location string) (io.WriteCloser, error) {
	exists, err := fileSystem.Exists(ctx, location)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := fileSystem.Delete(ctx, location); err != nil {
			return nil, err
		}
	}
	return fileSystem.NewWriter(ctx, location, os.FileMode(0o644), option.NewSkipChecksum(true))
}

// PathJoinSafe joins path components without collapsing the double slash of
// URL-style locations (e.g. s3://).
func PathJoinSafe(elem ...string) string {
	if len(elem) == 0 {
		return ""
	}
	if strings.Contains(elem[0], "://") {
		basePath := strings.TrimSuffix(elem[0], "/")
		return basePath + "/" + filepath.Join(elem[1:]...)
	}
	return filepath.Join(elem...)
}
