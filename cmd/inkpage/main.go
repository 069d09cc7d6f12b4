// Command inkpage fetches a web page and renders it into e-ink page
// images.
package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/inkpage/config"
	"github.com/tsawler/inkpage/model"
	"github.com/tsawler/inkpage/overlay"
	"github.com/tsawler/inkpage/parser"
	"github.com/tsawler/inkpage/render"
	"github.com/tsawler/inkpage/resolver"
)

func main() {
	var (
		pageURL      = pflag.String("url", "", "page to fetch and render")
		outDir       = pflag.String("out", "pages", "output directory for page images")
		settingsPath = pflag.String("settings", "settings.yaml", "settings file (optional)")
		dumpTree     = pflag.Bool("dump-tree", false, "print the parsed document tree and exit")
		timeout      = pflag.Duration("timeout", 30*time.Second, "HTTP timeout")
	)
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *pageURL == "" {
		logger.Error("missing required flag --url")
		pflag.Usage()
		os.Exit(2)
	}

	if err := run(logger, *pageURL, *outDir, *settingsPath, *dumpTree, *timeout); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, pageURL, outDir, settingsPath string, dumpTree bool, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}

	logger.Info("fetching page", "url", pageURL)
	source, err := fetchHTML(client, pageURL)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", pageURL, err)
	}

	doc, err := parser.Parse(source)
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	logger.Info("parsed document", "blocks", doc.BlockCount())

	if dumpTree {
		fmt.Println(model.Dump(doc))
		return nil
	}

	cfg, err := config.LoadWithFallback(settingsPath)
	if err != nil {
		return err
	}

	images := fetchImages(logger, client, pageURL, doc.ImageURLs())

	comp, err := overlay.New()
	if err != nil {
		return err
	}
	renderer, err := render.New(cfg,
		render.WithBaseURL(pageURL),
		render.WithImages(images),
		render.WithCompositor(comp),
	)
	if err != nil {
		return err
	}

	pages, err := renderer.RenderDocument(doc)
	if err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for i, page := range pages {
		path := filepath.Join(outDir, fmt.Sprintf("page-%03d.png", i+1))
		if err := writePNG(path, page.Image()); err != nil {
			return err
		}
	}
	logger.Info("wrote pages", "count", len(pages), "dir", outDir)
	return nil
}

// fetchHTML downloads the page and decodes it to UTF-8 using the response
// charset.
func fetchHTML(client *http.Client, pageURL string) (string, error) {
	resp, err := client.Get(pageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

const imageFetchWorkers = 4

// fetchImages prefetches every referenced image concurrently. Failures map
// to nil so the renderer draws placeholders instead of aborting.
func fetchImages(logger *slog.Logger, client *http.Client, baseURL string, refs []string) map[string]image.Image {
	urls := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		abs, err := resolver.Resolve(baseURL, ref)
		if err != nil {
			logger.Warn("skipping unresolvable image", "ref", ref, "error", err)
			continue
		}
		if !seen[abs] {
			seen[abs] = true
			urls = append(urls, abs)
		}
	}

	images := make(map[string]image.Image, len(urls))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, imageFetchWorkers)

	for _, url := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			img, err := fetchImage(client, url)
			if err != nil {
				logger.Warn("image fetch failed", "url", url, "error", err)
				img = nil
			}
			mu.Lock()
			images[url] = img
			mu.Unlock()
		}(url)
	}
	wg.Wait()
	return images
}

func fetchImage(client *http.Client, url string) (image.Image, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
