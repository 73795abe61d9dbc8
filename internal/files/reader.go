// Package files reads documents and images for the front end.
package files

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const defaultImageMimeType = "image/png"

var imageMimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
}

// ReadText returns the full contents of path as UTF-8 text.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Op: "read file", Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &IOError{Op: "read file", Path: path, Err: ErrInvalidUTF8}
	}
	return string(data), nil
}

// ReadImageDataURI returns the image at path as a base64 data URI.
func ReadImageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Op: "read image", Path: path, Err: err}
	}
	return DataURI(MimeTypeForPath(path), data), nil
}

// MimeTypeForPath maps an image extension to its MIME type, ignoring case.
// Unknown or missing extensions fall back to image/png.
func MimeTypeForPath(path string) string {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if mimeType, ok := imageMimeTypes[extension]; ok {
		return mimeType
	}
	return defaultImageMimeType
}

func DataURI(mimeType string, data []byte) string {
	var builder strings.Builder
	builder.Grow(len("data:;base64,") + len(mimeType) + base64.StdEncoding.EncodedLen(len(data)))
	builder.WriteString("data:")
	builder.WriteString(mimeType)
	builder.WriteString(";base64,")
	builder.WriteString(base64.StdEncoding.EncodeToString(data))
	return builder.String()
}
