package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, solid(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, solid(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestProcessAvatarJPEG(t *testing.T) {
	avatar, err := ProcessAvatar(bytes.NewReader(createTestJPEG(100, 100)))
	if err != nil {
		t.Fatalf("ProcessAvatar JPEG: %v", err)
	}
	if avatar.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", avatar.MIME)
	}
	if len(avatar.Data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestProcessAvatarPNG(t *testing.T) {
	avatar, err := ProcessAvatar(bytes.NewReader(createTestPNG(100, 100)))
	if err != nil {
		t.Fatalf("ProcessAvatar PNG: %v", err)
	}
	if avatar.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg (always outputs JPEG), got %s", avatar.MIME)
	}
}

func TestProcessAvatarDownscale(t *testing.T) {
	avatar, err := ProcessAvatar(bytes.NewReader(createTestJPEG(1024, 512)))
	if err != nil {
		t.Fatalf("ProcessAvatar large image: %v", err)
	}
	w, h := decodedSize(t, avatar.Data)
	if w != AvatarSize || h != AvatarSize/2 {
		t.Errorf("expected %dx%d, got %dx%d", AvatarSize, AvatarSize/2, w, h)
	}
}

func TestProcessAvatarSmallNotUpscaled(t *testing.T) {
	avatar, err := ProcessAvatar(bytes.NewReader(createTestJPEG(50, 50)))
	if err != nil {
		t.Fatalf("ProcessAvatar small image: %v", err)
	}
	if w, h := decodedSize(t, avatar.Data); w != 50 || h != 50 {
		t.Errorf("small image should not be resized: got %dx%d", w, h)
	}
}

func TestProcessAvatarInvalidFormat(t *testing.T) {
	if _, err := ProcessAvatar(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("expected error for invalid format")
	}
	if _, err := ProcessAvatar(bytes.NewReader([]byte("GIF89a..."))); err == nil {
		t.Error("expected error for GIF")
	}
}

func TestProcessAvatarTooLarge(t *testing.T) {
	big := make([]byte, MaxUploadBytes+10)
	copy(big, createTestJPEG(10, 10))
	if _, err := ProcessAvatar(bytes.NewReader(big)); err == nil {
		t.Error("expected error for oversized upload")
	}
}
