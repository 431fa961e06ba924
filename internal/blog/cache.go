package blog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheEnvVar        = "TERMFOLIO_CACHE_DIR"
	cacheSubdir        = "termfolio/posts"
	cacheTTL           = time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 30 * time.Second
)

// fileCache keeps remote post files on disk and revalidates them with
// conditional requests once they are older than cacheTTL.
type fileCache struct {
	dir    string
	client *http.Client
}

type fileCacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// DefaultCacheDir returns TERMFOLIO_CACHE_DIR or a directory under the user
// cache dir.
func DefaultCacheDir() string {
	if dir := os.Getenv(cacheEnvVar); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "termfolio-cache")
	}
	return filepath.Join(base, cacheSubdir)
}

func newFileCache(dir string, client *http.Client) (*fileCache, error) {
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blog: create cache dir: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &fileCache{dir: dir, client: client}, nil
}

// Fetch returns a local path holding the body of fileURL. A stale copy is
// served when revalidation fails.
func (c *fileCache) Fetch(ctx context.Context, fileURL string) (string, error) {
	bodyPath, metaPath, partialPath := c.pathsFor(fileURL)

	if info, err := os.Stat(bodyPath); err == nil && time.Since(info.ModTime()) < cacheTTL {
		return bodyPath, nil
	}

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(bodyPath)
	p, err := c.download(ctx, fileURL, bodyPath, metaPath, partialPath, meta, info)
	if err == nil {
		return p, nil
	}
	if info != nil {
		return bodyPath, nil
	}
	return "", err
}

func (c *fileCache) download(ctx context.Context, fileURL, bodyPath, metaPath, partialPath string, meta fileCacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current == nil {
			return "", fmt.Errorf("GET %s: not modified but nothing cached", fileURL)
		}
		now := time.Now()
		meta.CachedAt = now.UTC()
		if err := writeMeta(metaPath, meta); err != nil {
			return "", err
		}
		// Touch the body so the TTL restarts.
		_ = os.Chtimes(bodyPath, now, now)
		return bodyPath, nil
	case http.StatusOK:
		return c.saveBody(resp, bodyPath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("GET %s: %s (%s)", fileURL, resp.Status, strings.TrimSpace(string(body)))
	}
}

func (c *fileCache) saveBody(resp *http.Response, bodyPath, metaPath, partialPath string) (string, error) {
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(partialPath, bodyPath); err != nil {
		return "", err
	}

	meta := fileCacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(bodyPath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return bodyPath, nil
}

// pathsFor keeps the file extension so callers can pick a decoder.
func (c *fileCache) pathsFor(fileURL string) (string, string, string) {
	sum := sha1.Sum([]byte(fileURL))
	key := hex.EncodeToString(sum[:])
	ext := strings.ToLower(path.Ext(stripQuery(fileURL)))
	base := filepath.Join(c.dir, key)
	return base + ext, base + metaSuffix, base + partialSuffix
}

func stripQuery(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		return raw[:i]
	}
	return raw
}

func readMeta(p string) (fileCacheMeta, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return fileCacheMeta{}, err
	}
	var meta fileCacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return fileCacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(p string, meta fileCacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
