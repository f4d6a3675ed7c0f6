package tools

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

func imageDecode(data []byte) (image.Image, string, error) {
	return image.Decode(bytes.NewReader(data))
}

func newRGBA(width, height int) *image.RGBA {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func encodeImageBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
