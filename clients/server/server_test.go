package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
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
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/xob0t/GoCaption/pkg/config"
	"github.com/xob0t/GoCaption/pkg/generator"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Output = filepath.Join(dir, "output")
	cfg.Paths.Images = filepath.Join(dir, "images")
	cfg.Paths.Fonts = filepath.Join(dir, "fonts")
	cfg.Paths.GoogleFonts = filepath.Join(dir, "fonts", "google_fonts")
	cfg.Paths.Presets = filepath.Join(dir, "presets")
	cfg.Fonts.Remote = false
	cfg.Image.DefaultWidth = 320
	cfg.Image.DefaultHeight = 180
	return cfg
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, generator.NewSolidImage(w, h, color.White)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(cfg, zap.NewNop()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, testConfig(t))
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	var body map[string]string
	decodeJSON(t, resp, &body)
	if body["status"] != "healthy" || body["version"] != Version {
		t.Errorf("body = %v", body)
	}
}

func TestFontsAndPresets(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	if err := os.MkdirAll(cfg.Paths.Fonts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Paths.Fonts, "Roboto.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, cfg)

	resp, err := http.Get(ts.URL + "/api/fonts")
	if err != nil {
		t.Fatal(err)
	}
	var fonts struct{ Fonts []string }
	decodeJSON(t, resp, &fonts)
	if len(fonts.Fonts) != 1 || fonts.Fonts[0] != "Roboto" {
		t.Errorf("fonts = %v", fonts.Fonts)
	}

	resp, err = http.Get(ts.URL + "/api/presets")
	if err != nil {
		t.Fatal(err)
	}
	var presets struct {
		Dimensions map[string][2]int
		Styles     []struct{ Key string }
	}
	decodeJSON(t, resp, &presets)
	if presets.Dimensions["open-graph"] != [2]int{1200, 630} {
		t.Errorf("open-graph = %v", presets.Dimensions["open-graph"])
	}
	var found bool
	for _, s := range presets.Styles {
		found = found || s.Key == "professional-quote"
	}
	if !found {
		t.Errorf("styles = %+v", presets.Styles)
	}
}

func TestProcessCustom(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writePNG(t, filepath.Join(cfg.Paths.Images, "src.png"), 640, 360)
	ts := newTestServer(t, cfg)

	for _, path := range []string{"/api/process_custom", "/process_custom"} {
		body := `{"image_url":"http://localhost/images/src.png","text":"Hello there"}`
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status = %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("content type = %q", ct)
		}
		img, err := png.Decode(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatal(err)
		}
		if img.Bounds() != image.Rect(0, 0, 320, 180) {
			t.Errorf("bounds = %v, want configured default size", img.Bounds())
		}

		name := resp.Header.Get("X-Output-File")
		if _, err := os.Stat(filepath.Join(cfg.Paths.Output, "images", name)); err != nil {
			t.Errorf("output not saved: %v", err)
		}
		saved, err := http.Get(ts.URL + "/output/" + name)
		if err != nil {
			t.Fatal(err)
		}
		saved.Body.Close()
		if saved.StatusCode != http.StatusOK {
			t.Errorf("GET /output/%s = %d", name, saved.StatusCode)
		}
	}
}

func TestProcessCustom_Errors(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writePNG(t, filepath.Join(cfg.Paths.Images, "src.png"), 64, 64)
	outsidePNG := filepath.Join(t.TempDir(), "secret.png")
	writePNG(t, outsidePNG, 64, 64)
	ts := newTestServer(t, cfg)

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{"bad json", `{`, http.StatusBadRequest, "InvalidRequest"},
		{"no url", `{"text":"hi"}`, http.StatusBadRequest, "InvalidRequest"},
		{"missing image", `{"image_url":"http://localhost/images/none.png","text":"hi"}`, http.StatusBadGateway, "ImageUnavailable"},
		{"file inside images", `{"image_url":"file://` + filepath.ToSlash(filepath.Join(cfg.Paths.Images, "src.png")) + `","text":"hi"}`, http.StatusOK, ""},
		{"bad color", `{"image_url":"http://localhost/images/src.png","text":"hi","text_color":"#zz"}`, http.StatusBadRequest, "InvalidColorFormat"},
		{"file outside images", `{"image_url":"file://` + filepath.ToSlash(outsidePNG) + `","text":"hi"}`, http.StatusBadGateway, "ImageUnavailable"},
		{"partial padding", `{"image_url":"http://localhost/images/src.png","text":"hi","padding":{"top":1}}`, http.StatusBadRequest, "InvalidPaddingShape"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/process_custom", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status == http.StatusOK {
				resp.Body.Close()
				return
			}
			var body map[string]string
			decodeJSON(t, resp, &body)
			if body["kind"] != tt.kind {
				t.Errorf("kind = %q, want %q (%s)", body["kind"], tt.kind, body["error"])
			}
		})
	}
}

func TestImages(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	writePNG(t, filepath.Join(cfg.Paths.Images, "a.png"), 4, 4)
	ts := newTestServer(t, cfg)

	tests := map[string]int{
		"/images/a.png":         http.StatusOK,
		"/images/missing.png":   http.StatusNotFound,
		"/images/..%2F..%2Fetc": http.StatusNotFound,
	}
	for path, want := range tests {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
	}
}

func multipartBody(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadFont(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	ts := newTestServer(t, cfg)

	body, ct := multipartBody(t, "Brand.ttf", goregular.TTF)
	resp, err := http.Post(ts.URL+"/api/upload/font", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]string
	decodeJSON(t, resp, &got)
	if got["family"] != "Brand" {
		t.Errorf("response = %v", got)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Fonts, "Brand.ttf")); err != nil {
		t.Error(err)
	}

	body, ct = multipartBody(t, "notes.txt", []byte("x"))
	resp, err = http.Post(ts.URL+"/api/upload/font", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestImportPreset(t *testing.T) {
	t.Parallel()

	var bundle bytes.Buffer
	zw := zip.NewWriter(&bundle)
	f, _ := zw.Create("preset.yaml")
	f.Write([]byte("meta:\n  name: Night Sky\nrequest:\n  font_size: 30\n"))
	f, _ = zw.Create("fonts/Star.ttf")
	f.Write(goregular.TTF)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t)
	ts := newTestServer(t, cfg)
	body, ct := multipartBody(t, "night.gcpreset", bundle.Bytes())
	resp, err := http.Post(ts.URL+"/api/import/preset", ct, body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Key   string
		Fonts []string
	}
	decodeJSON(t, resp, &got)
	if got.Key != "night-sky" || len(got.Fonts) != 1 {
		t.Errorf("response = %+v", got)
	}

	resp, err = http.Get(ts.URL + "/api/fonts")
	if err != nil {
		t.Fatal(err)
	}
	var fonts struct{ Fonts []string }
	decodeJSON(t, resp, &fonts)
	if !strings.Contains(strings.Join(fonts.Fonts, ","), "Star") {
		t.Errorf("fonts = %v", fonts.Fonts)
	}
}

func TestRequestID_Logged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	s := New(testConfig(t), zap.New(core))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process_custom", strings.NewReader("{"))
	req.Header.Set("X-Request-ID", "abc123")
	s.Handler().ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "abc123" {
		t.Errorf("X-Request-ID = %q", rec.Header().Get("X-Request-ID"))
	}
	rejected := logs.FilterMessage("request rejected").All()
	if len(rejected) != 1 || rejected[0].ContextMap()["request_id"] != "abc123" {
		t.Errorf("rejected logs = %+v", rejected)
	}
}

func TestJanitor_Sweep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-time.Hour)
	files := map[string]time.Time{
		"old.png":   old,
		"old.JPG":   old,
		"old.txt":   old,
		"fresh.png": now,
	}
	for name, mod := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(p, mod, mod); err != nil {
			t.Fatal(err)
		}
	}

	j := &Janitor{Dirs: []string{dir, filepath.Join(dir, "absent")}, MaxAge: 20 * time.Minute, Logger: zap.NewNop()}
	if n := j.Sweep(now); n != 2 {
		t.Errorf("removed %d, want 2", n)
	}
	for name, keep := range map[string]bool{"old.png": false, "old.JPG": false, "old.txt": true, "fresh.png": true} {
		_, err := os.Stat(filepath.Join(dir, name))
		if (err == nil) != keep {
			t.Errorf("%s exists=%v, want %v", name, err == nil, keep)
		}
	}
}
