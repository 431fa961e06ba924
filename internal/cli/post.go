package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/termfolio/internal/blog"
	"github.com/csheth/termfolio/internal/logging"
	"github.com/csheth/termfolio/internal/markdown"
)

const (
	formatHTML = "html"
	formatTerm = "term"
)

type postOpts struct {
	format string
	width  int
	style  string
}

func newPostCmd(root *rootOptions) *cobra.Command {
	opts := postOpts{format: formatTerm, width: 80, style: markdown.StyleDark}
	cmd := &cobra.Command{
		Use:   "post <index>",
		Short: "Print one blog post",
		Long: `Post loads the blog index (or the sample post when it is unavailable) and
prints post <index>, counted from zero, as HTML or styled terminal text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("post index must be a number: %q", args[0])
			}
			return runPost(cmd.Context(), cmd.OutOrStdout(), root, opts, n)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: html or term")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "wrap width for term output")
	cmd.Flags().StringVar(&opts.style, "style", opts.style, "term style: dark, light or notty")
	return cmd
}

func runPost(ctx context.Context, w io.Writer, root *rootOptions, opts postOpts, n int) error {
	logger := logging.FromContext(ctx)

	var renderer markdown.Renderer
	switch strings.ToLower(opts.format) {
	case formatHTML:
		renderer = markdown.NewHTML()
	case formatTerm:
		term, err := markdown.NewTerminal(opts.style, opts.width)
		if err != nil {
			return err
		}
		renderer = term
	default:
		return fmt.Errorf("unknown format %q (want html or term)", opts.format)
	}

	src := blog.Source{Location: root.cfg.BlogIndex}
	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	prog := logging.NewProgress(logger)
	idx := blog.Resolve(loadCtx, src)
	if idx.FellBack() {
		logger.Warn("blog index unavailable, using sample data", "outcome", idx.Outcome, "err", idx.Err)
	}
	prog.Done(fmt.Sprintf("Loaded %d posts", len(idx.Posts)))

	if n < 0 || n >= len(idx.Posts) {
		return fmt.Errorf("post %d out of range (index has %d posts)", n, len(idx.Posts))
	}
	post := idx.Posts[n]

	body, err := blog.NewResolver(src, root.cfg.CacheDir).Content(loadCtx, post)
	text := body.Markdown
	var cerr *blog.ContentError
	if errors.As(err, &cerr) {
		text = cerr.Diagnostic()
	}

	out, rerr := renderer.Render(text)
	if rerr != nil {
		return rerr
	}
	if _, werr := io.WriteString(w, out); werr != nil {
		return werr
	}
	return err
}
