package install

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"
)

// WaveDromVersion is the WaveDrom release the installed assets come from.
const WaveDromVersion = "3.5.0"

const defaultBaseURL = "https://unpkg.com/wavedrom@" + WaveDromVersion + "/"

// Asset is a JavaScript file the HTML renderer must load for the embedded
// diagrams to render.
type Asset struct {
	// Name is the file name in the book root and in additional-js.
	Name string
	// Source is the path of the file inside the WaveDrom package.
	Source string
}

// Assets lists the files added to a book, in load order.
var Assets = []Asset{
	{Name: "wavedrom.min.js", Source: "wavedrom.min.js"},
	{Name: "wavedrome-default.js", Source: "skins/default.js"},
}

// Fetcher retrieves the content of an asset.
type Fetcher interface {
	Fetch(ctx context.Context, asset Asset) ([]byte, error)
}

// HTTPFetcher downloads assets from a package CDN.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewHTTPFetcher returns a fetcher for the pinned WaveDrom release on unpkg.
func NewHTTPFetcher() *HTTPFetcher {
	const timeout = 30 * time.Second

	return &HTTPFetcher{
		Client:  &http.Client{Timeout: timeout},
		BaseURL: defaultBaseURL,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, asset Asset) ([]byte, error) {
	url := f.BaseURL + asset.Source

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, asset.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: GET %s: %s", ErrFetch, asset.Name, url, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// DirFetcher reads assets from an unpacked copy of the WaveDrom package, such
// as node_modules/wavedrom, for installs without network access.
type DirFetcher struct {
	FS fs.FS
}

func (f DirFetcher) Fetch(_ context.Context, asset Asset) ([]byte, error) {
	data, err := fs.ReadFile(f.FS, asset.Source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, asset.Name, err)
	}

	return data, nil
}
