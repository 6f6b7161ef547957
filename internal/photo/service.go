package photo

import (
	"context"
	"fmt"
	"time"
)

// Service validates photos and, when an uploader is configured, moves
// inline data URIs to object storage.
type Service struct {
	uploader Uploader
	prefix   string
	maxBytes int
	now      func() time.Time
}

// NewService creates a photo service. A nil uploader keeps photos inline.
func NewService(uploader Uploader, prefix string, maxBytes int) *Service {
	return &Service{
		uploader: uploader,
		prefix:   prefix,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Store validates a single photo and returns the value to persist. Empty
// strings and plain URLs pass through.
func (s *Service) Store(ctx context.Context, name, value string) (string, error) {
	if value == "" || !IsDataURI(value) {
		return value, nil
	}

	img, err := DecodeDataURI(value)
	if err != nil {
		return "", err
	}
	if s.maxBytes > 0 && len(img.Data) > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, len(img.Data), s.maxBytes)
	}
	if s.uploader == nil {
		return value, nil
	}

	key := fmt.Sprintf("%s/%s-%d%s", s.prefix, name, s.now().UnixNano(), img.Ext())
	url, err := s.uploader.Upload(ctx, key, img.ContentType, img.Data)
	if err != nil {
		return "", fmt.Errorf("failed to upload photo %s: %w", name, err)
	}
	return url, nil
}

// StoreAll applies Store to every photo, rejecting lists longer than limit
// when limit is positive.
func (s *Service) StoreAll(ctx context.Context, name string, values []string, limit int) ([]string, error) {
	if limit > 0 && len(values) > limit {
		return nil, fmt.Errorf("%w: %d given, at most %d allowed", ErrTooMany, len(values), limit)
	}
	out := make([]string, 0, len(values))
	for i, v := range values {
		stored, err := s.Store(ctx, fmt.Sprintf("%s-%d", name, i), v)
		if err != nil {
			return nil, err
		}
		if stored != "" {
			out = append(out, stored)
		}
	}
	return out, nil
}
