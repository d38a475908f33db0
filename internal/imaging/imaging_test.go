package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImageBytes(t *testing.T, encode func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.Set(x, 4, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, img))
	return buf.Bytes()
}

func TestDecodePNG(t *testing.T) {
	data := testImageBytes(t, func(b *bytes.Buffer, img image.Image) error {
		return png.Encode(b, img)
	})

	img, format, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
}

func TestDecodeJPEG(t *testing.T) {
	data := testImageBytes(t, func(b *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(b, img, nil)
	})

	_, format, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDecodeEmptyBuffer(t *testing.T) {
	_, _, err := Decode(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyImage)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode([]byte("definitely not an image"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeTruncatedPNG(t *testing.T) {
	data := testImageBytes(t, func(b *bytes.Buffer, img image.Image) error {
		return png.Encode(b, img)
	})

	_, _, err := Decode(data[:20])
	require.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	path, cleanup, err := WritePNG(img)
	require.NoError(t, err)
	defer cleanup()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
