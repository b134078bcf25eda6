// handlers.go - HTTP handlers for the caption API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/xob0t/GoCaption/pkg/overlay"
	"github.com/xob0t/GoCaption/pkg/preset"
)

type ctxKey struct{}

// withRequestID tags every request with an ID, echoes it in X-Request-ID and
// stores a logger carrying it in the request context.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = randomID()
		}
		w.Header().Set("X-Request-ID", id)
		log := s.log.With(zap.String("request_id", id))
		log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), log)))
	})
}

func withLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func (s *Server) reqLog(r *http.Request) *zap.Logger {
	if l, ok := r.Context().Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return s.log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, overlay.ErrInvalidColor), errors.Is(err, overlay.ErrInvalidPadding):
		return http.StatusBadRequest, overlay.Kind(err)
	case errors.Is(err, preset.ErrInvalidRequest):
		return http.StatusBadRequest, "InvalidRequest"
	case errors.Is(err, overlay.ErrGeometryDegenerate):
		return http.StatusUnprocessableEntity, overlay.Kind(err)
	case errors.Is(err, overlay.ErrImageUnavailable):
		return http.StatusBadGateway, overlay.Kind(err)
	default:
		return http.StatusInternalServerError, overlay.Kind(err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	log := s.reqLog(r).With(zap.String("kind", kind), zap.Error(err))
	if status >= 500 {
		log.Error("request failed")
	} else {
		log.Warn("request rejected")
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "version": Version})
}

func (s *Server) handleFonts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"fonts": s.fonts.Available()})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	type styleInfo struct {
		Key         string `json:"key"`
		Name        string `json:"name"`
		Category    string `json:"category,omitempty"`
		Description string `json:"description,omitempty"`
	}
	styles := make([]styleInfo, 0)
	for _, st := range s.catalog.All() {
		styles = append(styles, styleInfo{
			Key:         preset.Key(st.Meta.Name),
			Name:        st.Meta.Name,
			Category:    st.Meta.Category,
			Description: st.Meta.Description,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dimensions": preset.Dimensions,
		"styles":     styles,
	})
}

// handleProcessCustom renders a caption request, keeps a copy under
// <output>/images and responds with the encoded image.
func (s *Server) handleProcessCustom(w http.ResponseWriter, r *http.Request) {
	log := s.reqLog(r)

	var raw overlay.RawRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: decode request: %w", preset.ErrInvalidRequest, err))
		return
	}

	res, err := s.renderer.Render(r.Context(), raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := randomID() + res.Format
	path := filepath.Join(s.cfg.Paths.Output, "images", name)
	if err := s.save(path, res.Encode); err != nil {
		s.writeError(w, r, err)
		return
	}
	log.Info("caption rendered", zap.String("file", name), zap.Int("warnings", len(res.Warnings)))

	w.Header().Set("Content-Type", res.ContentType())
	w.Header().Set("X-Output-File", name)
	if len(res.Warnings) > 0 {
		w.Header().Set("X-Warnings", strings.Join(res.Warnings, "; "))
	}
	http.ServeFile(w, r, path)
}

func (s *Server) save(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode output: %w", err)
	}
	return f.Close()
}

// handleImage serves source images referenced as http://localhost/images/<file>.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	serveFrom(w, r, s.cfg.Paths.Images)
}

// handleOutput serves previously rendered captions.
func (s *Server) handleOutput(w http.ResponseWriter, r *http.Request) {
	serveFrom(w, r, filepath.Join(s.cfg.Paths.Output, "images"))
}

func serveFrom(w http.ResponseWriter, r *http.Request, dir string) {
	name := filepath.Base(r.PathValue("file"))
	if dir == "" || name == "." || name == "/" {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(dir, name)
	if st, err := os.Stat(path); err != nil || st.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleUploadFont(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(20 << 20)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: no file uploaded", preset.ErrInvalidRequest))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	path, err := s.fonts.Install(header.Filename, data)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", preset.ErrInvalidRequest, err))
		return
	}
	family := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s.reqLog(r).Info("font installed", zap.String("family", family))
	writeJSON(w, http.StatusOK, map[string]string{"family": family, "file": filepath.Base(path)})
}

// handleImportPreset installs a .gcpreset bundle: its style joins the
// catalog and bundled fonts are installed.
func (s *Server) handleImportPreset(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(50 << 20)
	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: no file uploaded", preset.ErrInvalidRequest))
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp(filepath.Join(s.cfg.Paths.Output, "temp"), "import-*"+preset.BundleExt)
	if err != nil {
		tmp, err = os.CreateTemp("", "import-*"+preset.BundleExt)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("create temp file: %w", err))
			return
		}
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		s.writeError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	tmp.Close()

	st, err := preset.LoadBundle(tmp.Name(), s.fonts)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", preset.ErrInvalidRequest, err))
		return
	}
	s.catalog.Add(st)
	s.reqLog(r).Info("preset imported", zap.String("name", st.Meta.Name), zap.Int("fonts", len(st.Fonts)))
	writeJSON(w, http.StatusOK, map[string]any{
		"key":   preset.Key(st.Meta.Name),
		"name":  st.Meta.Name,
		"fonts": st.Fonts,
	})
}
