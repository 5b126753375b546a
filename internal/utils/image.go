package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

// DownscalePhoto decodes a jpeg or png photo and scales it down so
// neither side exceeds maxDim, preserving aspect ratio. Photos already
// within bounds, and formats we do not re-encode (gif, webp), are
// returned unchanged.
func DownscalePhoto(data []byte, ext string, maxDim uint) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	switch ext {
	case "jpg", "jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) <= maxDim && uint(bounds.Dy()) <= maxDim {
		return data, nil
	}

	scaled := resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)

	var buf bytes.Buffer
	if ext == "png" {
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}
