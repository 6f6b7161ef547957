package photo

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strings"
)

var (
	// ErrInvalidDataURI is returned for values that start with "data:" but cannot be decoded.
	ErrInvalidDataURI = errors.New("invalid data URI")
	// ErrTooLarge is returned when a decoded photo exceeds the configured limit.
	ErrTooLarge = errors.New("photo too large")
	// ErrTooMany is returned when more photos are attached than allowed.
	ErrTooMany = errors.New("too many photos")
)

// Uploader stores a decoded image and returns the URL it is served from.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Image is a decoded data URI.
type Image struct {
	ContentType string
	Data        []byte
}

// Ext returns a file extension for the image's content type.
func (img Image) Ext() string {
	switch img.ContentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	if exts, _ := mime.ExtensionsByType(img.ContentType); len(exts) > 0 {
		return exts[0]
	}
	if _, sub, ok := strings.Cut(img.ContentType, "/"); ok {
		return "." + sub
	}
	return ""
}

// IsDataURI reports whether s is an inline "data:" payload.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI decodes "data:<mime>;base64,<payload>".
func DecodeDataURI(s string) (Image, error) {
	meta, payload, ok := strings.Cut(s, ",")
	if !ok || !IsDataURI(meta) {
		return Image{}, ErrInvalidDataURI
	}
	mediaType, found := strings.CutSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
	if !found {
		return Image{}, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	contentType, _, _ := strings.Cut(mediaType, ";")
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, fmt.Errorf("%w: content type %q is not an image", ErrInvalidDataURI, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return Image{ContentType: contentType, Data: data}, nil
}
