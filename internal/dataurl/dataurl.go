// Package dataurl encodes and decodes the data URLs used for every image
// embedded in a report record. Keeping images inline keeps the serialized
// record self-contained, with no references to files on the local disk.
package dataurl

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
)

const prefix = "data:"

// Encode wraps raw image bytes into a base64 data URL. The MIME type is
// sniffed from the content.
func Encode(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("unsupported content type %q", mime)
	}

	return prefix + mime + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// EncodeImage encodes an in-memory image as a PNG data URL.
func EncodeImage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("cannot encode image: %w", err)
	}
	return Encode(buf.Bytes())
}

// Decode parses a data URL back into raw bytes and its MIME type.
func Decode(url string) ([]byte, string, error) {
	if !strings.HasPrefix(url, prefix) {
		return nil, "", fmt.Errorf("not a data URL")
	}

	rest := url[len(prefix):]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, "", fmt.Errorf("malformed data URL: missing comma")
	}

	meta := rest[:comma]
	payload := rest[comma+1:]

	mime := meta
	base64enc := false
	if i := strings.IndexByte(meta, ';'); i >= 0 {
		mime = meta[:i]
		base64enc = strings.Contains(meta[i:], "base64")
	}
	if !base64enc {
		return nil, "", fmt.Errorf("malformed data URL: only base64 payloads are supported")
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("malformed data URL payload: %w", err)
	}
	return raw, mime, nil
}

// DecodeImage decodes a data URL into an image. PNG, JPEG and GIF payloads
// are supported.
func DecodeImage(url string) (image.Image, error) {
	raw, _, err := Decode(url)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("cannot decode embedded image: %w", err)
	}
	return img, nil
}
