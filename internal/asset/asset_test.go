package asset

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inamate/inamate/board-go/internal/widget"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		maxW, maxH int
		wantW      int
		wantH      int
	}{
		{"fits", 100, 50, 200, 200, 100, 50},
		{"wide", 400, 100, 200, 200, 200, 50},
		{"tall", 100, 400, 200, 200, 50, 200},
		{"no limit", 400, 400, 0, 0, 400, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := Downscale(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.maxW, tt.maxH)
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestLoaderResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "pic.png"), 300, 150)

	var l widget.ImageLoader = NewLoader(dir)
	img, err := l.Load("pic.png", 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %v", b)
	}
	if _, err := l.Load("missing.png", 100, 100); err == nil {
		t.Error("missing file loaded")
	}
}

func TestDecodeUnsupported(t *testing.T) {
	_, _, err := Decode(strings.NewReader("GIF89a not really"))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestIconSetFallbacks(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "copy.png"), 10, 10)
	s := NewIconSet(dir, widget.IconNames)
	for _, name := range widget.IconNames {
		if s.Icon(name) == nil {
			t.Errorf("no icon for %q", name)
		}
	}
	if b := s.Icon("copy").Bounds(); b.Dx() != 10 {
		t.Errorf("copy icon not loaded from dir: %v", b)
	}
	if b := s.Icon("delete").Bounds(); b.Dx() != IconSize {
		t.Errorf("delete fallback size = %v", b)
	}
	if s.Icon("nope") != nil {
		t.Error("unknown icon returned an image")
	}
}

func upload(t *testing.T, h *Handler, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	return rec
}

func TestUploadAndServe(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir, 64, 64)
	src := filepath.Join(t.TempDir(), "big.png")
	writePNG(t, src, 128, 32)
	data, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}

	rec := upload(t, h, "big.png", data)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Width != 64 || resp.Height != 16 || resp.Format != "png" {
		t.Errorf("resp = %+v", resp)
	}

	img, err := NewLoader(h.Dir()).Load(resp.Path, 1000, 1000)
	if err != nil {
		t.Fatalf("stored asset not loadable: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("stored width = %d", img.Bounds().Dx())
	}

	get := httptest.NewRecorder()
	h.Serve().ServeHTTP(get, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	if get.Code != http.StatusOK {
		t.Errorf("serve status = %d", get.Code)
	}
	if cc := get.Header().Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		t.Errorf("Cache-Control = %q", cc)
	}

	if err := h.Delete(resp.ID); err != nil {
		t.Errorf("delete: %v", err)
	}
	if err := h.Delete(resp.ID); err == nil {
		t.Error("second delete succeeded")
	}
}

func TestUploadRejectsUnsupported(t *testing.T) {
	rec := upload(t, NewHandler(t.TempDir(), 0, 0), "notes.txt", []byte("hello"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
