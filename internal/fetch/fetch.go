// Package fetch loads HTML documents over HTTP with an on-disk cache, so a
// selection session can be replayed against the same markup without
// re-downloading it.
package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	cacheEnvVar       = "ELEMENTSCOUT_CACHE_DIR"
	cacheSubdir       = "elementscout/pages"
	metaSuffix        = ".meta"
	pageSuffix        = ".html"
	defaultTTL        = 30 * time.Minute
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "elementscout/1.0"
	maxErrorBodyBytes = 512
)

// Options tune how pages are fetched and cached. Zero values fall back to
// package defaults.
type Options struct {
	Timeout   time.Duration
	CacheDir  string
	CacheTTL  time.Duration
	UserAgent string
}

// Client fetches pages with conditional revalidation against a disk cache.
type Client struct {
	http      *http.Client
	dir       string
	ttl       time.Duration
	userAgent string
	logger    *zap.Logger
}

type pageMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// NewClient builds a page fetcher. The cache directory resolves, in order,
// from opts.CacheDir, the ELEMENTSCOUT_CACHE_DIR environment variable, and
// the user cache dir.
func NewClient(opts Options, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := opts.CacheDir
	if dir == "" {
		dir = os.Getenv(cacheEnvVar)
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "elementscout-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		http:      &http.Client{Timeout: timeout},
		dir:       dir,
		ttl:       ttl,
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// Page returns the HTML text for the URL, serving from cache while the
// entry is fresh and falling back to a stale entry when the network fails.
func (c *Client) Page(ctx context.Context, pageURL string) (string, error) {
	key := cacheKey(pageURL)
	pagePath := filepath.Join(c.dir, key+pageSuffix)
	metaPath := filepath.Join(c.dir, key+metaSuffix)

	if info, err := os.Stat(pagePath); err == nil && info.Size() > 0 && time.Since(info.ModTime()) < c.ttl {
		c.logger.Debug("serving page from cache", zap.String("url", pageURL))
		return readPage(pagePath)
	}

	meta, _ := readMeta(metaPath)
	body, err := c.download(ctx, pageURL, pagePath, metaPath, meta)
	if err == nil {
		return body, nil
	}
	if stale, staleErr := readPage(pagePath); staleErr == nil && stale != "" {
		c.logger.Warn("download failed, serving stale cache entry",
			zap.String("url", pageURL),
			zap.Error(err))
		return stale, nil
	}
	return "", err
}

func (c *Client) download(ctx context.Context, pageURL, pagePath, metaPath string, meta pageMeta) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		meta.CachedAt = time.Now().UTC()
		_ = writeMeta(metaPath, meta)
		_ = os.Chtimes(pagePath, time.Now(), time.Now())
		return readPage(pagePath)
	case http.StatusOK:
		return c.saveBody(resp, pagePath, metaPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return "", fmt.Errorf("page download failed: %s (%s)", resp.Status, string(body))
	}
}

func (c *Client) saveBody(resp *http.Response, pagePath, metaPath string) (string, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(pagePath, data, 0o644); err != nil {
		return "", err
	}

	meta := pageMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
		Size:         int64(len(data)),
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return string(data), nil
}

func cacheKey(pageURL string) string {
	sum := sha1.Sum([]byte(pageURL))
	return hex.EncodeToString(sum[:])
}

func readPage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readMeta(path string) (pageMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pageMeta{}, err
	}
	var meta pageMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return pageMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta pageMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
