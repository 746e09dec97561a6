package imagepkg

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, size)
}

// GenerateQRImage returns an image.Image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	b, err := GenerateQRPNG(text, size)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(b))
}

// StampQR draws a size×size QR code for text onto dst at pt.
func StampQR(dst draw.Image, text string, size int, pt image.Point) error {
	q, err := GenerateQRImage(text, size)
	if err != nil {
		return err
	}
	Overlay(dst, q, pt)
	return nil
}
