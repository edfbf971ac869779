package render

import (
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 160

// GenerateQRCodeImage returns a borderless QR code for payload drawn in fg on a
// transparent background, so it can sit directly on the title card.
// If payload is empty, it returns (nil, nil).
func GenerateQRCodeImage(payload string, sizePx int, fg color.Color) (image.Image, error) {
	if payload == "" {
		return nil, nil
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	qrCode.DisableBorder = true
	qrCode.ForegroundColor = fg
	qrCode.BackgroundColor = color.Transparent

	return qrCode.Image(sizePx), nil
}
