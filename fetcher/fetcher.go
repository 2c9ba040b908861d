// Package fetcher performs the browser's outgoing HTTP requests and
// decodes response text. It also serves data: URLs so inline images
// work offline.
package fetcher

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"toad/form"
	"toad/logging"
)

// Response is a completed fetch.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	FinalURL    string // URL after following redirects
	FetchTime   time.Duration
}

// Options configures the fetcher behavior.
type Options struct {
	UserAgent      string
	TimeoutSeconds int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0 (compatible; toad/1.0)",
		TimeoutSeconds: 30,
	}
}

// Package-level options (set via Configure).
var opts = DefaultOptions()

// Configure sets the package-level options.
func Configure(o Options) {
	if o.UserAgent != "" {
		opts.UserAgent = o.UserAgent
	}
	if o.TimeoutSeconds > 0 {
		opts.TimeoutSeconds = o.TimeoutSeconds
	}
}

// UserAgent returns the currently configured user agent string.
func UserAgent() string {
	return opts.UserAgent
}

// Timeout returns the currently configured timeout duration.
func Timeout() time.Duration {
	return time.Duration(opts.TimeoutSeconds) * time.Second
}

const acceptHeader = "text/html,application/xhtml+xml;q=0.9," +
	"image/png,image/jpeg,image/gif,image/webp,image/bmp;q=0.8,*/*;q=0.7"

// MaxBodySize caps response bodies at 32 MiB; a runaway stream must
// not take the process with it.
const MaxBodySize = 32 << 20

// Get fetches a URL with the browser's headers. data: URLs decode
// locally without touching the network.
func Get(rawURL string) (*Response, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return decodeDataURL(rawURL)
	}
	return do("GET", rawURL, "", nil)
}

// Submit performs a form submission request.
func Submit(req *form.Request) (*Response, error) {
	if req.Method == form.POST {
		return do("POST", req.URL.String(), req.ContentType, req.Body)
	}
	return do("GET", req.URL.String(), "", nil)
}

func do(method, rawURL, contentType string, body []byte) (*Response, error) {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", acceptHeader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	client := &http.Client{Timeout: Timeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	r := &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
		FinalURL:    resp.Request.URL.String(),
		FetchTime:   time.Since(start),
	}
	logging.L().Debug("fetched",
		zap.String("url", rawURL),
		zap.String("final", r.FinalURL),
		zap.Int("status", r.Status),
		zap.Int("bytes", len(data)),
		zap.Duration("took", r.FetchTime),
	)
	return r, nil
}

// decodeDataURL handles data:[mediatype][;base64],payload.
func decodeDataURL(rawURL string) (*Response, error) {
	rest := strings.TrimPrefix(rawURL, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data url")
	}
	meta, payload := rest[:comma], rest[comma+1:]
	isBase64 := strings.HasSuffix(meta, ";base64")
	mediaType := strings.TrimSuffix(meta, ";base64")
	if mediaType == "" {
		mediaType = "text/plain"
	}
	var body []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data url: %w", err)
		}
		body = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("decoding data url: %w", err)
		}
		body = []byte(unescaped)
	}
	return &Response{
		Status:      http.StatusOK,
		ContentType: mediaType,
		Body:        body,
		FinalURL:    rawURL,
	}, nil
}

// IsHTML reports whether the response should enter the HTML pipeline.
// Servers that send no content type get the benefit of the doubt.
func (r *Response) IsHTML() bool {
	ct := strings.ToLower(r.ContentType)
	return ct == "" ||
		strings.Contains(ct, "text/html") ||
		strings.Contains(ct, "application/xhtml")
}

// IsPlainText reports a text/plain response, shown as preformatted
// text rather than parsed as markup.
func (r *Response) IsPlainText() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "text/plain")
}

// DecodeText converts the body to UTF-8 using the charset named in the
// content type (or sniffed from the bytes), falling back to the raw
// bytes when detection fails.
func (r *Response) DecodeText() string {
	reader, err := charset.NewReader(bytes.NewReader(r.Body), r.ContentType)
	if err != nil {
		return string(r.Body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(r.Body)
	}
	return string(decoded)
}
