package dataurl

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func testPNGBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := testPNGBytes(t)

	url, err := Encode(raw)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("Expected png data URL, got prefix %q", url[:30])
	}

	got, mime, err := Decode(url)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("Expected mime image/png, got %s", mime)
	}
	if !bytes.Equal(got, raw) {
		t.Error("Decoded bytes differ from original")
	}
}

func TestEncodeRejectsNonImages(t *testing.T) {
	if _, err := Encode([]byte("plain text, definitely not an image")); err == nil {
		t.Error("Expected error for non-image data")
	}
	if _, err := Encode(nil); err == nil {
		t.Error("Expected error for empty data")
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"no prefix", "image/png;base64,AAAA"},
		{"no comma", "data:image/png;base64"},
		{"not base64 encoded", "data:image/png,rawbytes"},
		{"bad payload", "data:image/png;base64,!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(tt.url); err == nil {
				t.Errorf("Expected error for %q", tt.url)
			}
		})
	}
}

func TestDecodeImage(t *testing.T) {
	url, err := Encode(testPNGBytes(t))
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	img, err := DecodeImage(url)
	if err != nil {
		t.Fatalf("DecodeImage returned error: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Errorf("Expected 4x4 image, got %v", img.Bounds())
	}
}

func TestEncodeImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	url, err := EncodeImage(img)
	if err != nil {
		t.Fatalf("EncodeImage returned error: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Errorf("Expected png data URL, got %q", url[:30])
	}
}
