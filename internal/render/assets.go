package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedImage is returned for images the PDF writer cannot embed.
var ErrUnsupportedImage = errors.New("render: unsupported image type")

const maxAssetBytes = 8 << 20

// Asset is a loaded image.
type Asset struct {
	Data []byte
	MIME string
	// PDFType is the image type name understood by the PDF writer ("PNG", "JPG", "GIF").
	PDFType string
}

// AssetLoader fetches the images a document references.
type AssetLoader interface {
	Load(ctx context.Context, ref string) (*Asset, error)
}

type cachedAsset struct {
	asset   *Asset
	expires time.Time
}

// HTTPAssetLoader loads http(s) references over the network and file references
// (file:// URLs or plain paths) from disk. Successful loads are cached for ttl.
type HTTPAssetLoader struct {
	client *http.Client
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cachedAsset
}

// NewHTTPAssetLoader returns a loader with the given request timeout and cache ttl.
// A zero ttl disables caching.
func NewHTTPAssetLoader(timeout, ttl time.Duration) *HTTPAssetLoader {
	return &HTTPAssetLoader{
		client: &http.Client{Timeout: timeout},
		ttl:    ttl,
		cache:  make(map[string]cachedAsset),
	}
}

// Load implements AssetLoader.
func (l *HTTPAssetLoader) Load(ctx context.Context, ref string) (*Asset, error) {
	if a := l.cached(ref); a != nil {
		return a, nil
	}

	data, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	asset, err := sniff(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	if l.ttl > 0 {
		l.mu.Lock()
		l.cache[ref] = cachedAsset{asset: asset, expires: time.Now().Add(l.ttl)}
		l.mu.Unlock()
	}
	return asset, nil
}

func (l *HTTPAssetLoader) cached(ref string) *Asset {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.cache[ref]
	if !ok {
		return nil
	}
	if time.Now().After(c.expires) {
		delete(l.cache, ref)
		return nil
	}
	return c.asset
}

func (l *HTTPAssetLoader) fetch(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("render: invalid asset reference %q: %w", ref, err)
	}

	switch u.Scheme {
	case "http", "https":
	case "file":
		return readFile(u.Path)
	case "":
		return readFile(ref)
	default:
		return nil, fmt.Errorf("render: unsupported asset scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render: fetch %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render: fetch %s: unexpected status %d", ref, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render: read asset: %w", err)
	}
	return data, nil
}

func sniff(data []byte) (*Asset, error) {
	mt := mimetype.Detect(data)

	var pdfType string
	switch {
	case mt.Is("image/png"):
		pdfType = "PNG"
	case mt.Is("image/jpeg"):
		pdfType = "JPG"
	case mt.Is("image/gif"):
		pdfType = "GIF"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
	}
	return &Asset{Data: data, MIME: mt.String(), PDFType: pdfType}, nil
}
