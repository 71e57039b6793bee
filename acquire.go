package tablecsv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
)

// Source is any of: a local file path or URL string, an already-open
// io.Reader, or a Command describing a subprocess whose stdout is the
// byte stream to parse. Per spec.md §1 these acquisition mechanisms are
// named-interface collaborators, not the core engine's concern — the
// driver only ever sees an io.Reader once acquisition is done.
type Source any

// Command describes an external program to run, streaming its stdout.
// Grounded on the general shape of sqldef-sqldef/cmd/*def spawning a
// database client binary and reading its stdout.
type Command struct {
	Path string
	Args []string
}

// Downloader fetches a URL-like source and returns its body stream. The
// default implementation is backed by net/http; callers may substitute
// their own (e.g. to add auth, retries, or caching) via WithDownloader.
type Downloader interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

type httpDownloader struct {
	client *http.Client
}

func (d *httpDownloader) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("tablecsv: fetching %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

var defaultDownloader Downloader = &httpDownloader{client: http.DefaultClient}

// urlLike matches the spec's `^\w+://` URL recognition rule.
var urlLike = regexp.MustCompile(`^\w+://`)

// acquire turns a Source into a plain io.Reader (and, where applicable, an
// io.Closer the caller must close once done). Compression framing is
// applied afterward by detectCompression, not here — acquisition only
// gets raw bytes flowing.
func acquire(ctx context.Context, src Source, downloader Downloader) (io.Reader, io.Closer, error) {
	switch s := src.(type) {
	case io.Reader:
		if c, ok := s.(io.Closer); ok {
			return s, c, nil
		}
		return s, nil, nil

	case Command:
		cmd := exec.CommandContext(ctx, s.Path, s.Args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, nil, err
		}
		return stdout, processCloser{cmd}, nil

	case string:
		if urlLike.MatchString(s) {
			if downloader == nil {
				return nil, nil, &EnvironmentError{Msg: "no downloader configured for URL source " + s}
			}
			rc, err := downloader.Fetch(ctx, s)
			if err != nil {
				return nil, nil, err
			}
			return rc, rc, nil
		}
		f, err := os.Open(s)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil

	default:
		return nil, nil, &ConfigError{Msg: fmt.Sprintf("unsupported source type %T", src)}
	}
}

// processCloser waits for the subprocess on Close, surfacing any error it
// exited with after its stdout has been fully drained.
type processCloser struct {
	cmd *exec.Cmd
}

func (p processCloser) Close() error {
	return p.cmd.Wait()
}
