package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent = errors.New("qrcode: content cannot be empty")
	ErrGenerate     = errors.New("qrcode: failed to generate")
)

// Size bounds in pixels.
const (
	DefaultSize = 256
	MinSize     = 64
	MaxSize     = 1024
)

// Level is the error recovery level encoded in the image.
type Level = skipqrcode.RecoveryLevel

const (
	Low     Level = skipqrcode.Low
	Medium  Level = skipqrcode.Medium
	High    Level = skipqrcode.High
	Highest Level = skipqrcode.Highest
)

type options struct {
	size  int
	level Level
}

// Option configures Generate.
type Option func(*options)

// WithSize sets the image width and height. Values outside [MinSize, MaxSize]
// are clamped and zero keeps DefaultSize.
func WithSize(px int) Option {
	return func(o *options) {
		if px != 0 {
			o.size = min(max(px, MinSize), MaxSize)
		}
	}
}

// WithLevel sets the recovery level. Medium is the default.
func WithLevel(l Level) Option {
	return func(o *options) { o.level = l }
}

// Generate encodes content as a square PNG.
func Generate(content string, opts ...Option) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	o := options{size: DefaultSize, level: Medium}
	for _, opt := range opts {
		opt(&o)
	}

	png, err := skipqrcode.Encode(content, o.level, o.size)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return png, nil
}

// GenerateDataURI returns the PNG from Generate as a base64 data URI.
func GenerateDataURI(content string, opts ...Option) (string, error) {
	png, err := Generate(content, opts...)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
