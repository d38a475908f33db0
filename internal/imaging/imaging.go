// Package imaging decodes uploaded business-card photos into in-memory
// rasters and re-encodes them for OCR engines that consume files.
//
// Only PNG and JPEG are accepted. An uploaded buffer that is empty,
// truncated, or not one of those containers yields a DecodeError; nothing
// here performs I/O beyond the explicit WritePNG helper.
package imaging

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"

	// Register the PNG and JPEG decoders with image.Decode.
	_ "image/jpeg"
	_ "image/png"
)

// Decode turns an opaque byte buffer into a decoded raster image.
// It returns the image and the detected format name ("png" or "jpeg").
func Decode(data []byte) (image.Image, string, error) {
	const op = "Decode"

	if len(data) == 0 {
		return nil, "", NewDecodeError(op, ErrEmptyImage, "")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if err == image.ErrFormat {
			return nil, "", NewDecodeError(op, ErrUnknownFormat, "")
		}
		return nil, "", NewDecodeError(op, ErrCorruptImage, err.Error())
	}

	switch format {
	case "png", "jpeg":
		return img, format, nil
	default:
		return nil, "", NewDecodeError(op, ErrUnknownFormat, "format: "+format)
	}
}

// WritePNG encodes a decoded raster to a temporary PNG file and returns its
// path together with a cleanup func that removes the containing directory.
// OCR binaries read files, not pixels, so this is the hand-off point.
func WritePNG(img image.Image) (string, func(), error) {
	const op = "WritePNG"

	tmpDir, err := os.MkdirTemp("", "cardscan-*")
	if err != nil {
		return "", nil, NewDecodeError(op, err, "failed to create temp dir")
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	out := filepath.Join(tmpDir, "card.png")
	f, err := os.Create(out)
	if err != nil {
		cleanup()
		return "", nil, NewDecodeError(op, err, "failed to create temp file")
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, NewDecodeError(op, err, "failed to encode PNG")
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, NewDecodeError(op, err, "failed to close temp file")
	}

	return out, cleanup, nil
}
