// Package server provides the GoCaption HTTP API.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xob0t/GoCaption/pkg/config"
	"github.com/xob0t/GoCaption/pkg/fonts"
	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/preset"
	"github.com/xob0t/GoCaption/pkg/render"
	"github.com/xob0t/GoCaption/pkg/source"
)

// Version is reported by /api/health.
var Version = "1.0.0"

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Server serves the caption API.
type Server struct {
	cfg      *config.Config
	fonts    *fonts.Manager
	catalog  *preset.Catalog
	renderer *render.Renderer
	log      *zap.Logger
}

// New wires a server from cfg. Style presets are loaded from the presets
// directory; load problems are logged, never fatal.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = logger.L()
	}
	fm := fonts.NewManager(fonts.Options{
		Dir:       cfg.Paths.Fonts,
		GoogleDir: cfg.Paths.GoogleFonts,
		Remote:    cfg.Fonts.Remote,
		Timeout:   cfg.Fonts.DownloadTimeout,
		Logger:    log,
	})
	catalog := preset.NewCatalog()
	warnings, err := catalog.LoadDir(cfg.Paths.Presets, fm)
	if err != nil {
		log.Warn("load style presets", zap.Error(err))
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	opts := cfg.LayoutOptions()
	opts.Logger = log
	return &Server{
		cfg:     cfg,
		fonts:   fm,
		catalog: catalog,
		renderer: &render.Renderer{
			Fonts: fm,
			Loader: source.NewLoader(source.Options{
				ImagesDir:    cfg.Paths.Images,
				FileRoot:     cfg.Paths.Images,
				MaxBytes:     cfg.Image.MaxBytes,
				AllowedTypes: cfg.Image.AllowedTypes,
				Timeout:      cfg.Image.FetchTimeout,
				Logger:       log,
			}),
			Catalog:       catalog,
			Defaults:      cfg.RequestDefaults(),
			Options:       opts,
			LineSpacing:   cfg.Layout.LineSpacing,
			DefaultWidth:  cfg.Image.DefaultWidth,
			DefaultHeight: cfg.Image.DefaultHeight,
			Format:        cfg.Image.Format,
			JPEGQuality:   cfg.Image.JPEGQuality,
			Logger:        log,
		},
		log: log.Named("server"),
	}
}

// Handler returns the route table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/fonts", s.handleFonts)
	mux.HandleFunc("GET /api/presets", s.handlePresets)
	mux.HandleFunc("POST /api/process_custom", s.handleProcessCustom)
	mux.HandleFunc("POST /process_custom", s.handleProcessCustom)
	mux.HandleFunc("POST /api/upload/font", s.handleUploadFont)
	mux.HandleFunc("POST /api/import/preset", s.handleImportPreset)
	mux.HandleFunc("GET /images/{file}", s.handleImage)
	mux.HandleFunc("GET /output/{file}", s.handleOutput)

	return s.withRequestID(mux)
}

// outputDirs are the directories the janitor sweeps.
func (s *Server) outputDirs() []string {
	out := s.cfg.Paths.Output
	return []string{out, filepath.Join(out, "images"), filepath.Join(out, "temp")}
}

// Run serves until ctx is canceled, running the output janitor alongside.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.L()
	for _, dir := range []string{cfg.Paths.Output, filepath.Join(cfg.Paths.Output, "images"), filepath.Join(cfg.Paths.Output, "temp")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	s := New(cfg, log)
	defer s.fonts.Close()

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", httpSrv.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()), zap.Bool("debug", cfg.Server.Debug))
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		j := &Janitor{
			Dirs:     s.outputDirs(),
			MaxAge:   cfg.Cleanup.MaxAge,
			Interval: cfg.Cleanup.Interval,
			Logger:   log,
		}
		j.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func randomID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
