package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/csheth/termfolio/internal/blog"
	"github.com/csheth/termfolio/internal/markdown"
)

type postSummary struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Preview string `json:"preview"`
	File    string `json:"file,omitempty"`
}

type postList struct {
	Outcome string        `json:"outcome"`
	Posts   []postSummary `json:"posts"`
}

type errResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.src.Location); err != nil {
		writeJSON(w, http.StatusNotFound, errResponse{Error: "blog index not found"})
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	http.ServeFile(w, r, s.src.Location)
}

// serveFile handles GET /blogs/{file}.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "*"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: "invalid file name"})
		return
	}
	abs, err := blog.SafeJoin(s.root, name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResponse{Error: err.Error()})
		return
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

func (s *Server) listPosts(w http.ResponseWriter, _ *http.Request) {
	idx := s.Index()
	out := postList{Outcome: idx.Outcome.String(), Posts: make([]postSummary, 0, len(idx.Posts))}
	for i, p := range idx.Posts {
		out.Posts = append(out.Posts, postSummary{
			Index:   i,
			Title:   p.DisplayTitle(),
			Date:    p.DisplayDate(),
			Preview: p.DisplayPreview(),
			File:    p.File,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

var postPage = template.Must(template.New("post").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<article>
<h1>{{.Title}}</h1>
<p class="post-date">{{.Date}}</p>
{{.Body}}
</article>
</body>
</html>
`))

type postView struct {
	Title string
	Date  string
	Body  template.HTML
}

// showPost handles GET /posts/{index}. A post whose file cannot be read is
// still answered with 200 and the diagnostic in place of the body.
func (s *Server) showPost(w http.ResponseWriter, r *http.Request) {
	idx := s.Index()
	n, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || n < 0 || n >= len(idx.Posts) {
		http.NotFound(w, r)
		return
	}
	post := idx.Posts[n]

	body, err := s.resolver.Content(r.Context(), post)
	src := body.Markdown
	var cerr *blog.ContentError
	switch {
	case errors.As(err, &cerr):
		s.logger.Warn("post file unavailable", "post", post.DisplayTitle(), "file", cerr.File, "err", cerr.Err)
		src = cerr.Diagnostic()
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, errResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	view := postView{
		Title: post.DisplayTitle(),
		Date:  post.DisplayDate(),
		Body:  template.HTML(markdown.Safe(s.html, src)),
	}
	if err := postPage.Execute(w, view); err != nil {
		s.logger.Error("render post page", "err", err)
	}
}
