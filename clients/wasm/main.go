//go:build js && wasm

// GoCaption WASM - client-side caption renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o gocaption.wasm ./clients/wasm/
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"
	"syscall/js"

	"go.uber.org/zap"

	"github.com/xob0t/GoCaption/pkg/fonts"
	"github.com/xob0t/GoCaption/pkg/logger"
	"github.com/xob0t/GoCaption/pkg/overlay"
	"github.com/xob0t/GoCaption/pkg/preset"
	"github.com/xob0t/GoCaption/pkg/render"
)

// In-memory image store, keyed by caller-chosen IDs.
var (
	assetsMu sync.RWMutex
	assets   = make(map[string][]byte)
)

var renderer = &render.Renderer{
	Fonts:    fonts.Embedded(),
	Catalog:  preset.NewCatalog(),
	Defaults: overlay.DefaultDefaults(),
	Options:  overlay.DefaultOptions(),
}

func main() {
	logger.Init(logger.Options{Level: "warn"})
	renderer.Logger = logger.L()
	logger.Info("GoCaption WASM loaded")

	js.Global().Set("goApplyOverlay", js.FuncOf(applyOverlay))
	js.Global().Set("goRegisterAsset", js.FuncOf(registerAsset))
	js.Global().Set("goRemoveAsset", js.FuncOf(removeAsset))
	js.Global().Set("goPresets", js.FuncOf(presets))
	js.Global().Set("goReady", js.ValueOf(true))

	select {}
}

func errValue(format string, args ...any) js.Value {
	return js.ValueOf("error: " + fmt.Sprintf(format, args...))
}

// goRegisterAsset(id, base64Data) stores image bytes for later renders.
func registerAsset(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errValue("need id, base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return errValue("invalid base64: %v", err)
	}
	assetsMu.Lock()
	assets[args[0].String()] = data
	assetsMu.Unlock()
	return js.ValueOf("ok")
}

// goRemoveAsset(id) drops a stored image.
func removeAsset(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errValue("need id")
	}
	assetsMu.Lock()
	delete(assets, args[0].String())
	assetsMu.Unlock()
	return js.ValueOf("ok")
}

// imageBytes takes a stored asset ID or base64 image data, with or without
// a data: URL prefix.
func imageBytes(ref string) ([]byte, error) {
	assetsMu.RLock()
	data, ok := assets[ref]
	assetsMu.RUnlock()
	if ok {
		return data, nil
	}
	if i := strings.Index(ref, ";base64,"); strings.HasPrefix(ref, "data:") && i >= 0 {
		ref = ref[i+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(ref)
}

// goApplyOverlay(requestJSON, image) renders a caption request over an image
// given as an asset ID or base64 data and returns the result as base64.
// Failures return "error: <kind>: <message>".
func applyOverlay(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errValue("need requestJSON, image")
	}

	var raw overlay.RawRequest
	if err := json.Unmarshal([]byte(args[0].String()), &raw); err != nil {
		return errValue("%s: parse request: %v", overlay.Kind(err), err)
	}
	data, err := imageBytes(args[1].String())
	if err != nil {
		return errValue("ImageUnavailable: %v", err)
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return errValue("ImageUnavailable: decode: %v", err)
	}
	renderer.Logger.Debug("image decoded", zap.String("format", format))

	res, err := renderer.RenderImage(context.Background(), src, raw)
	if err != nil {
		return errValue("%s: %v", overlay.Kind(err), err)
	}
	var buf bytes.Buffer
	if err := res.Encode(&buf); err != nil {
		return errValue("encode: %v", err)
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goPresets() returns the built-in dimension and style presets as JSON.
func presets(this js.Value, args []js.Value) any {
	out, err := json.Marshal(map[string]any{
		"dimensions": preset.Dimensions,
		"styles":     renderer.Catalog.Names(),
	})
	if err != nil {
		return errValue("%v", err)
	}
	return js.ValueOf(string(out))
}
