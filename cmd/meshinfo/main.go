// Command meshinfo prints the topology, size and bounds of 4D mesh files.
//
//	meshinfo [-j 4] [-max-bytes 268435456] depth42.4pa https://host/model.4ta
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Raysphere24/HenonViewer4D/henon/mesh"
	"github.com/Raysphere24/HenonViewer4D/internal/buildinfo"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	jobs     int
	maxBytes int64
	timeout  time.Duration
	progress bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("meshinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.IntVar(&opts.jobs, "j", 4, "Files decoded concurrently.")
	fs.Int64Var(&opts.maxBytes, "max-bytes", 256<<20, "Largest accepted file in bytes (0 = unlimited).")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP timeout for URL inputs.")
	fs.BoolVar(&opts.progress, "progress", isTerminal(stderr), "Show a progress bar per file.")
	version := fs.Bool("version", false, "Print version and exit.")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *version {
		fmt.Fprintln(stdout, "meshinfo", buildinfo.String())
		return nil
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: meshinfo [flags] file|url ...")
		return flag.ErrHelp
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}
	if opts.progress {
		// Bars from concurrent decodes would interleave.
		opts.jobs = 1
	}

	reports, err := inspectAll(ctx, fs.Args(), opts, stderr)
	for _, r := range reports {
		fmt.Fprintln(stdout, r)
	}
	return err
}

// inspectAll decodes refs with at most opts.jobs in flight. Reports keep
// the input order; failures are reported in place and joined into the
// returned error.
func inspectAll(ctx context.Context, refs []string, opts options, stderr io.Writer) ([]string, error) {
	client := &http.Client{Timeout: opts.timeout}
	reports := make([]string, len(refs))
	errs := make([]error, len(refs))

	var g errgroup.Group
	g.SetLimit(opts.jobs)
	for i, ref := range refs {
		g.Go(func() error {
			src := mesh.SourceFor(ref, client)
			if opts.progress {
				src = withProgress(src, stderr)
			}
			buf, err := mesh.Load(ctx, src, opts.maxBytes)
			if err != nil {
				errs[i] = err
				reports[i] = fmt.Sprintf("%s: error: %v", ref, err)
				return nil
			}
			reports[i] = report(ref, buf)
			return nil
		})
	}
	_ = g.Wait()
	return reports, errors.Join(errs...)
}

func report(name string, b *mesh.Buffer) string {
	lo, hi := b.Bounds()
	return fmt.Sprintf("%s: %s, %d vertices, %d primitives, bounds [%g %g %g %g]..[%g %g %g %g]",
		name, b.Topology, b.Len(), b.Primitives(),
		lo[0], lo[1], lo[2], lo[3], hi[0], hi[1], hi[2], hi[3])
}

func withProgress(src mesh.Source, w io.Writer) mesh.Source {
	open := src.Open
	src.Open = func(ctx context.Context) (io.ReadCloser, error) {
		rc, err := open(ctx)
		if err != nil {
			return nil, err
		}
		size := int64(-1)
		if st, ok := rc.(interface{ Stat() (os.FileInfo, error) }); ok {
			if fi, err := st.Stat(); err == nil {
				size = fi.Size()
			}
		}
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(src.Name),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		return &progressReadCloser{Reader: io.TeeReader(rc, bar), c: rc, bar: bar}, nil
	}
	return src
}

type progressReadCloser struct {
	io.Reader
	c   io.Closer
	bar *progressbar.ProgressBar
}

func (p *progressReadCloser) Close() error {
	_ = p.bar.Finish()
	return p.c.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
