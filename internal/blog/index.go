package blog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultIndexLocation is where the index is looked up when nothing else is
// configured.
const DefaultIndexLocation = "blogs/blogIndex.json"

const (
	defaultFetchTimeout = 10 * time.Second
	maxIndexBytes       = 4 << 20
)

var (
	// ErrIndexAbsent covers transport failures, missing files and non-2xx
	// responses.
	ErrIndexAbsent = errors.New("blog index absent")
	// ErrIndexMalformed means the index was retrieved but is not a JSON array
	// of posts.
	ErrIndexMalformed = errors.New("blog index malformed")
)

// Outcome tells how the working set was obtained.
type Outcome int

const (
	OutcomeLoaded Outcome = iota
	OutcomeAbsent
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeAbsent:
		return "absent"
	case OutcomeMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Index is the working set of posts.
type Index struct {
	Posts   []Post
	Outcome Outcome
	// Err is the reason the fallback was used; nil when loaded.
	Err error
}

// FellBack reports whether Posts is the built-in fallback.
func (i Index) FellBack() bool {
	return i.Outcome != OutcomeLoaded
}

// Source locates the index: an http(s) URL or a file path.
type Source struct {
	Location string
	Client   *http.Client
}

// Remote reports whether the location is fetched over HTTP.
func (s Source) Remote() bool {
	lower := strings.ToLower(s.Location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (s Source) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return &http.Client{Timeout: defaultFetchTimeout}
}

// LoadIndex retrieves and decodes the index. The returned Index always has
// its Outcome set; on failure Posts is nil and the error wraps ErrIndexAbsent
// or ErrIndexMalformed.
func LoadIndex(ctx context.Context, src Source) (Index, error) {
	data, err := src.read(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrIndexAbsent, err)
		return Index{Outcome: OutcomeAbsent, Err: err}, err
	}
	posts, err := DecodeIndex(data)
	if err != nil {
		return Index{Outcome: OutcomeMalformed, Err: err}, err
	}
	return Index{Posts: posts, Outcome: OutcomeLoaded}, nil
}

// Resolve loads the index and substitutes the fallback on any failure.
func Resolve(ctx context.Context, src Source) Index {
	idx, err := LoadIndex(ctx, src)
	if err != nil {
		idx.Posts = Fallback()
	}
	return idx
}

// DecodeIndex accepts any JSON array; anything else is malformed. Elements
// are decoded leniently: fields of the wrong type are left empty and
// non-object elements become zero posts.
func DecodeIndex(data []byte) ([]Post, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: payload is not an array", ErrIndexMalformed)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexMalformed, err)
	}
	posts := make([]Post, 0, len(raws))
	for _, raw := range raws {
		var p Post
		// Only type errors are possible here; the matching fields are kept.
		_ = json.Unmarshal(raw, &p)
		posts = append(posts, p)
	}
	return posts, nil
}

func (s Source) read(ctx context.Context) ([]byte, error) {
	if strings.TrimSpace(s.Location) == "" {
		return nil, errors.New("no index location configured")
	}
	if !s.Remote() {
		return os.ReadFile(s.Location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: %s", s.Location, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes))
}
