// GoCaption - Text overlays for images.
//
// Usage:
//
//	gocaption -o <file> [-i <image>] [--request <json>] [options]
//	gocaption serve [--port 5001]
//	gocaption fonts list | download <family>
//	gocaption presets
//	gocaption init
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/xob0t/GoCaption/clients/server"
	"github.com/xob0t/GoCaption/pkg/config"
	"github.com/xob0t/GoCaption/pkg/fonts"
	"github.com/xob0t/GoCaption/pkg/generator"
	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/overlay"
	"github.com/xob0t/GoCaption/pkg/preset"
	"github.com/xob0t/GoCaption/pkg/render"
	"github.com/xob0t/GoCaption/pkg/source"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "init":
		err = runInit(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "fonts":
		err = runFonts(os.Args[2:])
	case "presets":
		err = runPresets(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		err = run(os.Args[1:])
	}
	logger.Sync()
	if err != nil {
		fatal(err)
	}
}

// setup loads the config and initializes the global logger.
func setup(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFonts(cfg *config.Config) *fonts.Manager {
	return fonts.NewManager(fonts.Options{
		Dir:       cfg.Paths.Fonts,
		GoogleDir: cfg.Paths.GoogleFonts,
		Remote:    cfg.Fonts.Remote,
		Timeout:   cfg.Fonts.DownloadTimeout,
		Logger:    logger.L(),
	})
}

func newCatalog(cfg *config.Config, fm *fonts.Manager) *preset.Catalog {
	c := preset.NewCatalog()
	warnings, err := c.LoadDir(cfg.Paths.Presets, fm)
	if err != nil {
		logger.Warn("load style presets: " + err.Error())
	}
	for _, w := range warnings {
		logger.Warn(w)
	}
	return c
}

// renderFlags are the request fields settable from the command line. Empty
// values leave the request untouched.
type renderFlags struct {
	text, language, font, textColor, bgColor, align, style, dims, format string
	size, width, height, curve                                         int
	bgOpacity, widthPercent                                            float64
}

func (f *renderFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.text, "text", "", "Caption text")
	fs.StringVar(&f.language, "lang", "", "Language code, e.g. en, ar, ckb")
	fs.StringVar(&f.font, "font", "", `Font family, e.g. "Roboto:700italic"`)
	fs.IntVar(&f.size, "size", 0, "Font size in pixels")
	fs.StringVar(&f.textColor, "color", "", "Text color (#rgb, #rrggbb or #rrggbbaa)")
	fs.StringVar(&f.bgColor, "bg", "", "Background color")
	fs.Float64Var(&f.bgOpacity, "bg-opacity", -1, "Background opacity 0..1")
	fs.IntVar(&f.curve, "curve", -1, "Background corner radius")
	fs.StringVar(&f.align, "align", "", "Alignment, e.g. bottom-center")
	fs.Float64Var(&f.widthPercent, "width-percent", 0, "Container width as % of the image")
	fs.StringVar(&f.style, "style", "", "Style preset name")
	fs.StringVar(&f.dims, "preset", "", "Output dimension preset, e.g. instagram-feed")
	fs.IntVar(&f.width, "w", 0, "Output width in pixels")
	fs.IntVar(&f.height, "h", 0, "Output height in pixels")
	fs.StringVar(&f.format, "format", "", "Output format: png, jpg or bmp (default: from -o)")
}

func (f *renderFlags) apply(raw *overlay.RawRequest) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&raw.Text, f.text)
	set(&raw.Language, f.language)
	set(&raw.FontFamily, f.font)
	set(&raw.TextColor, f.textColor)
	set(&raw.BackgroundColor, f.bgColor)
	set(&raw.Alignment, f.align)
	set(&raw.Style, f.style)
	set(&raw.Preset, f.dims)
	set(&raw.OutputFormat, f.format)
	if f.size > 0 {
		raw.FontSize = f.size
	}
	if f.width > 0 {
		raw.Width = f.width
	}
	if f.height > 0 {
		raw.Height = f.height
	}
	if f.bgOpacity >= 0 {
		v := f.bgOpacity
		raw.BgOpacity = &v
	}
	if f.curve >= 0 {
		raw.BgCurve = f.curve
	}
	if f.widthPercent > 0 {
		v := f.widthPercent
		raw.ContainerWidthPercent = &v
	}
}

// readRequest decodes a JSON request from path, or stdin for "-".
func readRequest(path string, stdin io.Reader) (overlay.RawRequest, error) {
	var raw overlay.RawRequest
	if path == "" {
		return raw, nil
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return raw, fmt.Errorf("read request: %w", err)
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("%w: parse %s: %w", preset.ErrInvalidRequest, path, err)
	}
	return raw, nil
}

// imageURL turns a local path into a file:// URL; URLs pass through.
func imageURL(ref string) (string, error) {
	if strings.Contains(ref, "://") {
		return ref, nil
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

func run(args []string) error {
	fs := flag.NewFlagSet("gocaption", flag.ExitOnError)

	var (
		output, imageRef, requestPath, cfgPath, fill string
		rf                                           renderFlags
	)
	fs.StringVar(&output, "o", "", "Output file path (.png, .jpg or .bmp)")
	fs.StringVar(&output, "output", "", "Output file path (.png, .jpg or .bmp)")
	fs.StringVar(&imageRef, "i", "", "Source image path or URL")
	fs.StringVar(&imageRef, "image", "", "Source image path or URL")
	fs.StringVar(&requestPath, "request", "", `Request JSON file ("-" for stdin)`)
	fs.StringVar(&cfgPath, "config", "", "Config file (default: "+config.DefaultFile+" if present)")
	fs.StringVar(&fill, "fill", "random", "Canvas color when no image is given: hex or 'random'")
	rf.register(fs)

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if output == "" {
		printUsage()
		return errors.New("output file is required (-o)")
	}

	cfg, err := setup(cfgPath)
	if err != nil {
		return err
	}

	raw, err := readRequest(requestPath, os.Stdin)
	if err != nil {
		return err
	}
	rf.apply(&raw)
	if imageRef != "" {
		if raw.ImageURL, err = imageURL(imageRef); err != nil {
			return err
		}
	}
	if raw.OutputFormat == "" {
		raw.OutputFormat = strings.TrimPrefix(filepath.Ext(output), ".")
	}

	fm := newFonts(cfg)
	defer fm.Close()
	opts := cfg.LayoutOptions()
	opts.Logger = logger.L()
	r := &render.Renderer{
		Fonts: fm,
		Loader: source.NewLoader(source.Options{
			ImagesDir:    cfg.Paths.Images,
			MaxBytes:     cfg.Image.MaxBytes,
			AllowedTypes: cfg.Image.AllowedTypes,
			Timeout:      cfg.Image.FetchTimeout,
			Logger:       logger.L(),
		}),
		Catalog:     newCatalog(cfg, fm),
		Defaults:    cfg.RequestDefaults(),
		Options:     opts,
		LineSpacing: cfg.Layout.LineSpacing,
		Format:      cfg.Image.Format,
		JPEGQuality: cfg.Image.JPEGQuality,
		Logger:      logger.L(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res *render.Result
	if raw.ImageURL != "" {
		res, err = r.Render(ctx, raw)
	} else {
		res, err = renderOnFill(ctx, r, raw, fill, cfg)
	}
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if err := generator.Generate(output, generator.Config{Image: res.Image, JPEGQuality: cfg.Image.JPEGQuality}); err != nil {
		return err
	}
	fmt.Printf("Done: %s (%dx%d)\n", output, res.Image.Bounds().Dx(), res.Image.Bounds().Dy())
	return nil
}

// renderOnFill draws the caption on a solid canvas sized from the request
// or the configured defaults.
func renderOnFill(ctx context.Context, r *render.Renderer, raw overlay.RawRequest, fill string, cfg *config.Config) (*render.Result, error) {
	raw, _ = r.Prepare(raw)
	w, h, _ := preset.ResolveDimensions(raw, cfg.Image.DefaultWidth, cfg.Image.DefaultHeight)
	col, err := generator.ParseColor(fill)
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}
	return r.RenderImage(ctx, generator.NewSolidImage(w, h, col), raw)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		cfgPath, host string
		port          int
		debug         bool
	)
	fs.StringVar(&cfgPath, "config", "", "Config file")
	fs.StringVar(&host, "host", "", "Listen host (overrides config)")
	fs.IntVar(&port, "port", 0, "Listen port (overrides config)")
	fs.BoolVar(&debug, "debug", false, "Debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	cfg.Server.Debug = cfg.Server.Debug || debug
	if err := logger.Init(cfg.LoggerOptions()); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, cfg)
}

func runFonts(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: gocaption fonts list | download <family>")
	}
	fs := flag.NewFlagSet("fonts", flag.ExitOnError)
	var cfgPath string
	fs.StringVar(&cfgPath, "config", "", "Config file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	cfg, err := setup(cfgPath)
	if err != nil {
		return err
	}
	fm := newFonts(cfg)
	defer fm.Close()

	switch args[0] {
	case "list":
		for _, name := range fm.Available() {
			fmt.Println(name)
		}
		return nil
	case "download":
		if fs.NArg() == 0 {
			return errors.New("usage: gocaption fonts download <family[:weight][italic]>...")
		}
		for _, family := range fs.Args() {
			spec := overlay.ParseFontFamily(family, cfg.Fonts.DefaultSize)
			path, err := fm.Download(context.Background(), spec)
			if err != nil {
				return err
			}
			fmt.Printf("%s -> %s\n", spec, path)
		}
		return nil
	case "refresh":
		mapping, err := fm.RefreshMapping()
		if err != nil {
			return err
		}
		fmt.Printf("%d fonts mapped\n", len(mapping))
		return nil
	default:
		return fmt.Errorf("unknown fonts command %q", args[0])
	}
}

func runPresets(args []string) error {
	fs := flag.NewFlagSet("presets", flag.ExitOnError)
	var cfgPath string
	fs.StringVar(&cfgPath, "config", "", "Config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := setup(cfgPath)
	if err != nil {
		return err
	}
	fm := newFonts(cfg)
	defer fm.Close()
	fmt.Print(preset.FormatPresets(newCatalog(cfg, fm)))
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var (
		dir   string
		force bool
	)
	fs.StringVar(&dir, "dir", ".", "Directory to write starter files into")
	fs.BoolVar(&force, "force", false, "Overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	created, err := writeStarterFiles(dir, force)
	if err != nil {
		return err
	}
	fmt.Printf("Created: %s\n", strings.Join(created, ", "))
	fmt.Println("Run: gocaption -o out.png --request request.json")
	return nil
}

// writeStarterFiles writes the example request, a style preset and the
// default config into dir. Existing files are kept unless force is set.
func writeStarterFiles(dir string, force bool) ([]string, error) {
	files := preset.ExampleFiles()
	cfgData, err := config.Default().Marshal()
	if err != nil {
		return nil, err
	}
	files[config.DefaultFile] = string(cfgData)

	var created []string
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Fprintf(os.Stderr, "Skipping existing %s\n", path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return created, fmt.Errorf("create %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return created, fmt.Errorf("write %s: %w", path, err)
		}
		created = append(created, name)
	}
	return created, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`GoCaption - Text overlays for images

USAGE:
    gocaption -o <file> [-i <image>] [--request <json>] [options]
    gocaption serve [--port 5001]
    gocaption fonts list | download <family> | refresh
    gocaption presets
    gocaption init [--dir .]

RENDER:
    -o, --output <path>      Output file (.png, .jpg or .bmp)
    -i, --image <path|url>   Source image; without it a solid canvas is used
    --request <path>         Request JSON ("-" for stdin); flags override it
    --text <text>            Caption text
    --lang <code>            Language (ar, fa, he, ur, ckb are right-to-left)
    --font <family>          Font family, e.g. "Roboto:700italic"
    --size <px>              Font size
    --color <hex>            Text color
    --bg <hex>               Background color
    --bg-opacity <0..1>      Background opacity
    --curve <px>             Background corner radius
    --align <v-h>            e.g. top-left, center-center, bottom-right
    --width-percent <pct>    Container width as % of the image
    --style <name>           Style preset
    --preset <name>          Dimension preset, e.g. instagram-feed
    -w, -h <px>              Output size
    --fill <hex|random>      Canvas color without -i (default: random)
    --config <path>          Config file (default: gocaption.yaml if present)

SERVER:
    gocaption serve [--host 0.0.0.0] [--port 5001] [--debug]

EXAMPLES:
    gocaption init
    gocaption -o out.png --request request.json
    gocaption -o quote.jpg -i photo.jpg --text "Hello" --style professional-quote
    gocaption -o card.png --preset open-graph --text "مرحبا" --lang ar
    gocaption fonts download "Open Sans:700"
`)
}
