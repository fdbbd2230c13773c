// Package pdf renders cover sheet HTML to PDF with headless Chromium.
package pdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config holds renderer settings.
type Config struct {
	// ChromePath points at a Chrome/Chromium binary. Empty lets the
	// launcher find (or download) one.
	ChromePath string
	// Timeout bounds a single render, launch included.
	Timeout time.Duration
}

// DefaultTimeout bounds a render when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Renderer prints HTML documents to PDF via the Chrome DevTools
// protocol. A fresh headless browser is launched per render; intake
// volume is a handful of submissions a day, so keeping a browser
// warm is not worth the resident memory.
type Renderer struct {
	config Config
}

// NewRenderer creates a renderer with the given config.
func NewRenderer(cfg Config) *Renderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Renderer{config: cfg}
}

// RenderHTML prints the given HTML document to Letter-size PDF bytes.
func (r *Renderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	l := launcher.New().Headless(true)
	if r.config.ChromePath != "" {
		l = l.Bin(r.config.ChromePath)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching chrome: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to chrome: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing browser: %w", closeErr)
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("setting document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("waiting for load: %w", err)
	}

	letterWidth, letterHeight := 8.5, 11.0
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      &letterWidth,
		PaperHeight:     &letterHeight,
	})
	if err != nil {
		return nil, fmt.Errorf("printing to pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("reading pdf stream: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("chrome produced an empty pdf")
	}

	return data, nil
}
