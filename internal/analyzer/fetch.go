package analyzer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"github.com/maestrobot/gh-maestro/internal/logging"
)

// BoundaryMarker separates concatenated attachment bodies in the log corpus.
const BoundaryMarker = "\n\n=== LOG FILE BOUNDARY ===\n\n"

// attachmentURLPattern matches GitHub file-upload URLs in issue bodies.
var attachmentURLPattern = regexp.MustCompile(`https://github\.com/[^/]+/[^/]+/files/\d+/[\w\.-]+`)

// ExtractAttachmentURLs returns GitHub file attachment URLs found in an
// issue body, in order of appearance.
func ExtractAttachmentURLs(body string) []string {
	return attachmentURLPattern.FindAllString(body, -1)
}

// HasAttachment reports whether the body references any file upload.
func HasAttachment(body string) bool {
	return attachmentURLPattern.MatchString(body)
}

// Fetcher downloads log attachments and assembles them into a corpus.
type Fetcher struct {
	httpClient  *http.Client
	concurrency int
	logger      *slog.Logger
}

// NewFetcher builds a fetcher with a bounded per-download timeout.
func NewFetcher(timeout time.Duration, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		httpClient:  &http.Client{Timeout: timeout},
		concurrency: concurrency,
		logger:      logging.New("fetch"),
	}
}

// FetchCorpus downloads every URL concurrently and concatenates the bodies
// that decoded successfully, joined with BoundaryMarker, in the order the
// URLs were given. Attachments that fail to download or decode are dropped;
// an empty string means nothing usable was fetched.
func (f *Fetcher) FetchCorpus(ctx context.Context, urls []string) string {
	if len(urls) == 0 {
		return ""
	}

	bodies := make([]string, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			content, err := f.download(ctx, url)
			if err != nil {
				f.logger.Warn("failed to download attachment", "url", url, "error", err)
				return nil // drop this attachment, keep the rest
			}
			bodies[i] = content
			return nil
		})
	}
	_ = g.Wait()

	var corpus string
	for _, body := range bodies {
		if body == "" {
			continue
		}
		if corpus != "" {
			corpus += BoundaryMarker
		}
		corpus += body
	}
	return corpus
}

// download performs a single GET and decodes the body as UTF-8, falling
// back to ISO-8859-1 for legacy log files.
func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &httpStatusError{code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return decodeLogBytes(raw)
}

// decodeLogBytes decodes attachment bytes as UTF-8 when valid, otherwise
// via the ISO-8859-1 single-byte fallback, which cannot fail.
func decodeLogBytes(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.code)
}
