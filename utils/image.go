package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
)

const (
	// MaxImageSize is the size every stored or uploaded image is reduced to
	MaxImageSize = 1024 * 1024
	// MaxSourceImageSize rejects source files before decoding them
	MaxSourceImageSize = 20 * 1024 * 1024

	minImageSide = 64
)

var jpegQualities = []int{85, 70, 55, 40}

// FileUploadError represents an image validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// PreparedImage is an image ready to be stored as a BLOB or uploaded
type PreparedImage struct {
	Data     []byte
	MimeType string
	Ext      string
}

// DetectMimeType sniffs the content type of data
func DetectMimeType(data []byte) (mimeType, ext string) {
	m := mimetype.Detect(data)
	return m.String(), m.Extension()
}

// PrepareImage validates that data is an image and shrinks it to at most maxBytes.
// Images already under the limit are returned untouched; larger ones are re-encoded
// as JPEG, lowering quality first and then resolution.
func PrepareImage(data []byte, maxBytes int) (*PreparedImage, error) {
	if len(data) == 0 {
		return nil, &FileUploadError{Code: "EMPTY_FILE", Message: "Image is empty"}
	}
	if len(data) > MaxSourceImageSize {
		return nil, &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxSourceImageSize/(1024*1024)),
		}
	}

	mimeType, ext := DetectMimeType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: fmt.Sprintf("Only image files are allowed, got %s", mimeType),
		}
	}

	if maxBytes <= 0 || len(data) <= maxBytes {
		return &PreparedImage{Data: data, MimeType: mimeType, Ext: ext}, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &FileUploadError{Code: "UNSUPPORTED_IMAGE", Message: fmt.Sprintf("Could not decode %s image", mimeType)}
	}

	out, err := compressJPEG(src, maxBytes)
	if err != nil {
		return nil, err
	}
	return &PreparedImage{Data: out, MimeType: "image/jpeg", Ext: ".jpg"}, nil
}

func compressJPEG(src image.Image, maxBytes int) ([]byte, error) {
	img := src
	for {
		for _, q := range jpegQualities {
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
				return nil, fmt.Errorf("failed to encode image: %w", err)
			}
			if buf.Len() <= maxBytes {
				return buf.Bytes(), nil
			}
		}

		b := img.Bounds()
		w, h := b.Dx()*3/4, b.Dy()*3/4
		if w < minImageSide || h < minImageSide {
			return nil, &FileUploadError{
				Code:    "FILE_TOO_LARGE",
				Message: fmt.Sprintf("Image cannot be reduced below %d KB", maxBytes/1024),
			}
		}
		img = downscale(img, w, h)
	}
}

// downscale resizes src to w x h with Catmull-Rom resampling
func downscale(src image.Image, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
