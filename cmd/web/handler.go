package main

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image/png"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/starfield/internal/config"
	"github.com/tomz197/starfield/internal/engine"
)

//go:embed index.html
var htmlPage string

// Defaults for /frame.png when a query parameter is absent.
const (
	defaultFrameWidth  = 960
	defaultFrameHeight = 540
)

// newMux serves the landing page, rendered stills and a health check.
func newMux(cfg config.Web, opts engine.Options, logger *log.Logger) http.Handler {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", cfg.DisplayHost)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("GET /frame.png", func(w http.ResponseWriter, r *http.Request) {
		serveFrame(w, r, opts, logger)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "ok")
	})
	return mux
}

func serveFrame(w http.ResponseWriter, r *http.Request, opts engine.Options, logger *log.Logger) {
	req, err := parseFrameRequest(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := engine.RenderFrame(opts, req)
	if err != nil {
		if errors.Is(err, engine.ErrFrameTooLarge) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error("render frame", "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		logger.Error("encode frame", "err", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// parseFrameRequest reads w, h, dpr, scroll, ticks and seed.
func parseFrameRequest(q url.Values) (engine.FrameRequest, error) {
	req := engine.FrameRequest{Width: defaultFrameWidth, Height: defaultFrameHeight, DPR: 1}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"w", &req.Width},
		{"h", &req.Height},
		{"dpr", &req.DPR},
		{"scroll", &req.ScrollY},
	}
	for _, f := range floats {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return engine.FrameRequest{}, fmt.Errorf("invalid %s: %q", f.name, raw)
		}
		*f.dst = v
	}
	if req.DPR > engine.MaxFrameDPR {
		return engine.FrameRequest{}, fmt.Errorf("invalid dpr: %v exceeds %d", req.DPR, engine.MaxFrameDPR)
	}

	if raw := q.Get("ticks"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return engine.FrameRequest{}, fmt.Errorf("invalid ticks: %q", raw)
		}
		req.Ticks = v
	}
	if raw := q.Get("seed"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return engine.FrameRequest{}, fmt.Errorf("invalid seed: %q", raw)
		}
		req.Seed = v
	}
	return req, nil
}
