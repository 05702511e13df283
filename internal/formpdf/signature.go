package formpdf

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// signatureResolution is the number of image pixels kept per point of the signature box.
const signatureResolution = 4

// maxSignatureSide bounds the declared image size. Decoding allocates the full image up front.
const maxSignatureSide = 4000

// decodeSignature turns a data URI or bare base64 payload into a PNG sized for box. The alpha
// channel is kept so the template shows through the signature.
func decodeSignature(raw string, box Box) ([]byte, error) {
	payload := strings.TrimSpace(raw)
	if _, after, found := strings.Cut(payload, ","); found {
		payload = after
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, errors.New("empty signature image")
	}

	isWebP := false
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		webpCfg, webpErr := webp.DecodeConfig(bytes.NewReader(data))
		if webpErr != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		cfg, isWebP = webpCfg, true
	}
	if cfg.Width > maxSignatureSide || cfg.Height > maxSignatureSide {
		return nil, fmt.Errorf("image is %dx%d, at most %dx%d is accepted", cfg.Width, cfg.Height, maxSignatureSide, maxSignatureSide)
	}

	var img image.Image
	if isWebP {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, errors.New("invalid image dimensions")
	}

	var out bytes.Buffer
	if err := png.Encode(&out, fit(img, int(box.Width)*signatureResolution, int(box.Height)*signatureResolution)); err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}
	return out.Bytes(), nil
}

// fit returns img as NRGBA, scaled down to fit within maxW x maxH when it is larger.
func fit(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w <= maxW && h <= maxH {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}

	ratio := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	dst := image.NewNRGBA(image.Rect(0, 0, max(1, int(float64(w)*ratio)), max(1, int(float64(h)*ratio))))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
