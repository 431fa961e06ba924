package blog

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// ContentError is returned when a post names a file that cannot be read.
// It is the only failure shown to the reader.
type ContentError struct {
	File string
	Err  error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("file not found: %s: %v", e.File, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// Diagnostic renders the error as a markdown block for the detail view.
func (e *ContentError) Diagnostic() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### $ file not found: %s\n\n", e.File)
	fmt.Fprintf(&b, "**Error:** Could not load `%s` from the blogs directory.\n\n", e.File)
	fmt.Fprintf(&b, "**Debug info:** %v\n\n", e.Err)
	b.WriteString("**To fix this:**\n\n")
	fmt.Fprintf(&b, "1. Create the file `blogs/%s`\n", e.File)
	b.WriteString("2. Add your markdown content to the file\n")
	b.WriteString("3. Reload the blog index to try again\n")
	return b.String()
}

// Body is the resolved markdown of a post.
type Body struct {
	Markdown string
	// Origin is "inline" or the path/URL the body was read from.
	Origin string
}

// Resolver reads post bodies. A post that names a file is always read from
// that file, even when it also carries inline content; inline content is
// used only when no file is named.
type Resolver struct {
	src   Source
	cache *fileCache
}

// NewResolver resolves files relative to the index location. cacheDir is
// used for remote files; empty means DefaultCacheDir.
func NewResolver(src Source, cacheDir string) *Resolver {
	r := &Resolver{src: src}
	if src.Remote() {
		if cache, err := newFileCache(cacheDir, src.Client); err == nil {
			r.cache = cache
		}
	}
	return r
}

// Content returns the markdown for post. Errors are always *ContentError.
func (r *Resolver) Content(ctx context.Context, post Post) (Body, error) {
	file := strings.TrimSpace(post.File)
	if file == "" {
		return Body{Markdown: post.Content, Origin: "inline"}, nil
	}
	local, origin, err := r.fetch(ctx, file)
	if err != nil {
		return Body{}, &ContentError{File: file, Err: err}
	}
	text, err := readBody(local)
	if err != nil {
		return Body{}, &ContentError{File: file, Err: err}
	}
	return Body{Markdown: text, Origin: origin}, nil
}

func (r *Resolver) fetch(ctx context.Context, file string) (string, string, error) {
	if r.src.Remote() {
		target, err := resolveURL(r.src.Location, file)
		if err != nil {
			return "", "", err
		}
		if r.cache == nil {
			return "", target, fmt.Errorf("no cache directory available for %s", target)
		}
		local, err := r.cache.Fetch(ctx, target)
		return local, target, err
	}
	local, err := SafeJoin(filepath.Dir(r.src.Location), file)
	if err != nil {
		return "", "", err
	}
	return local, local, nil
}

func resolveURL(base, file string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(file)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(ref).String(), nil
}

// SafeJoin joins rel onto root and rejects results that leave root.
func SafeJoin(root, rel string) (string, error) {
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("absolute paths not allowed: %s", rel)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	joined, err := filepath.Abs(filepath.Join(absRoot, cleaned))
	if err != nil {
		return "", err
	}
	if joined != absRoot && !strings.HasPrefix(joined, absRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("path escapes blog directory: %s", rel)
	}
	return joined, nil
}

func readBody(local string) (string, error) {
	if strings.EqualFold(filepath.Ext(local), ".pdf") {
		return pdfText(local)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func pdfText(local string) (string, error) {
	file, reader, err := pdf.Open(local)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return strings.TrimSpace(extraneousWhitespace.ReplaceAllString(builder.String(), " ")), nil
}
