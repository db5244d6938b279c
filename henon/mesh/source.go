package mesh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// ErrFetch is returned when a remote mesh cannot be retrieved.
var ErrFetch = errors.New("mesh: fetch failed")

// Source names a mesh and knows how to open its bytes.
//
// Name carries the extension that selects the topology. Open is not called
// for names with an unsupported extension.
type Source struct {
	Name string
	Open func(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads a mesh from the local filesystem.
func FileSource(path string) Source {
	return Source{
		Name: path,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return os.Open(path)
		},
	}
}

// FSSource reads name from fsys. Dropped files arrive this way.
func FSSource(fsys fs.FS, name string) Source {
	return Source{
		Name: name,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return fsys.Open(name)
		},
	}
}

// HTTPSource fetches url with a GET request. A nil client uses
// http.DefaultClient.
func HTTPSource(client *http.Client, url string) Source {
	if client == nil {
		client = http.DefaultClient
	}
	return Source{
		Name: url,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFetch, err)
			}
			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrFetch, err)
			}
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %s: %s", ErrFetch, url, resp.Status)
			}
			return resp.Body, nil
		},
	}
}

// SourceFor picks HTTPSource for http and https references and FileSource
// for everything else.
func SourceFor(ref string, client *http.Client) Source {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return HTTPSource(client, ref)
	}
	return FileSource(ref)
}

// Load opens src and decodes it, reading at most limit bytes when limit is
// above zero.
func Load(ctx context.Context, src Source, limit int64) (*Buffer, error) {
	topo := DetectTopology(src.Name)
	if topo == TopologyUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Name)
	}
	if src.Open == nil {
		return nil, fmt.Errorf("mesh: %s: no opener", src.Name)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	buf, err := DecodeReader(rc, topo, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}
	return buf, nil
}
