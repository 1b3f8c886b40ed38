package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/macrat/topodown/internal/meta"
	"github.com/macrat/topodown/internal/store"
	"github.com/macrat/topodown/internal/topoerr"
	"github.com/macrat/topodown/internal/topology"
)

const (
	HTTP_REDIRECT_MAX = 10
)

var (
	// UserAgent is the User-Agent header of requests to the registry.
	UserAgent = meta.UserAgent()

	// DefaultTimeout is the time limit of fetching one document.
	DefaultTimeout = time.Minute

	ErrRedirectLoopDetected = errors.New("redirect loop detected")
)

func checkHTTPRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > HTTP_REDIRECT_MAX {
		return ErrRedirectLoopDetected
	}
	return nil
}

// Reporter receives an event for each fetched document.
type Reporter interface {
	Report(store.Event)
}

// Fetcher fetches topology documents.
type Fetcher struct {
	Client   *http.Client
	Timeout  time.Duration
	Reporter Reporter
}

// NewFetcher creates a Fetcher with the default HTTP client.
// r can be nil.
func NewFetcher(r Reporter) *Fetcher {
	return &Fetcher{
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			CheckRedirect: checkHTTPRedirect,
		},
		Timeout:  DefaultTimeout,
		Reporter: r,
	}
}

// FetchDowntimes fetches and decodes a downtime feed.
func (f *Fetcher) FetchDowntimes(ctx context.Context, target string) (doc topology.DowntimesDocument, err error) {
	err = f.fetch(ctx, target, func(r io.Reader) (err error) {
		doc, err = topology.DecodeDowntimes(r)
		return err
	})
	return
}

// FetchResourceSummary fetches and decodes a resource group directory.
func (f *Fetcher) FetchResourceSummary(ctx context.Context, target string) (doc topology.ResourceSummaryDocument, err error) {
	err = f.fetch(ctx, target, func(r io.Reader) (err error) {
		doc, err = topology.DecodeResourceSummary(r)
		return err
	})
	return
}

// countReader counts the bytes read through it.
type countReader struct {
	r io.Reader
	n uint64
}

func (c *countReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)
	return n, err
}

func (f *Fetcher) fetch(ctx context.Context, target string, decode func(io.Reader) error) error {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	st := time.Now()

	body, err := f.open(ctx, target)
	if err == nil {
		cr := &countReader{r: body}
		err = decode(cr)
		body.Close()

		if err == nil {
			f.report(store.Event{
				Time:    st,
				Status:  store.StatusHealthy,
				Latency: time.Since(st),
				Target:  target,
				Extra: map[string]any{
					"size": humanize.Bytes(cr.n),
				},
			})
			return nil
		}
	}

	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %s", timeout)
	}

	f.report(store.Event{
		Time:    st,
		Status:  store.StatusFailure,
		Latency: time.Since(st),
		Target:  target,
		Message: err.Error(),
	})

	return topoerr.New(topoerr.ErrFeedUnavailable, err, "%s", target)
}

func (f *Fetcher) report(e store.Event) {
	if f.Reporter != nil {
		f.Reporter.Report(e)
	}
}

func (f *Fetcher) open(ctx context.Context, target string) (io.ReadCloser, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || isWindowsDrive(u.Scheme) {
		return os.Open(target)
	}

	switch u.Scheme {
	case "file":
		p := u.Opaque
		if p == "" {
			p = u.Path
		}
		return os.Open(filepath.FromSlash(p))
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, application/json;q=0.8")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || 299 < resp.StatusCode {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	return resp.Body, nil
}

func isWindowsDrive(scheme string) bool {
	return runtime.GOOS == "windows" && len(scheme) == 1 && strings.ContainsAny(scheme, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
}
