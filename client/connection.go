package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/signadot/go-ofx/domain/envelope"
	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/gomap"
)

const ContentType = "application/x-ofx"

// Connection sends a request envelope to an institution and returns its
// response.
type Connection interface {
	Send(ctx context.Context, req *envelope.RequestEnvelope, url string) (*envelope.ResponseEnvelope, error)
}

// HTTPError reports a non-2xx answer from an institution.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	kind := "server"
	if e.IsClient() {
		kind = "client"
	}
	return fmt.Sprintf("%s error from %s: %d %s", kind, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsClient reports whether the institution rejected the request itself.
func (e *HTTPError) IsClient() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// HTTPConnection posts OFX documents over HTTP.
type HTTPConnection struct {
	client  *http.Client
	dialect format.Dialect
	logger  *zap.Logger
	opts    []gomap.Option
}

type ConnOption func(*HTTPConnection)

func WithHTTPClient(c *http.Client) ConnOption {
	return func(h *HTTPConnection) { h.client = c }
}

// WithRequestDialect selects the dialect requests are written in,
// V1 by default. Responses are read in whichever dialect they use.
func WithRequestDialect(d format.Dialect) ConnOption {
	return func(h *HTTPConnection) { h.dialect = d }
}

func WithConnLogger(l *zap.Logger) ConnOption {
	return func(h *HTTPConnection) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMapOptions passes options to the marshaller and unmarshaller.
func WithMapOptions(opts ...gomap.Option) ConnOption {
	return func(h *HTTPConnection) { h.opts = append(h.opts, opts...) }
}

func NewHTTPConnection(opts ...ConnOption) *HTTPConnection {
	h := &HTTPConnection{
		client: http.DefaultClient,
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *HTTPConnection) Send(ctx context.Context, req *envelope.RequestEnvelope, url string) (*envelope.ResponseEnvelope, error) {
	body, err := gomap.Marshal(req, append([]gomap.Option{gomap.WithDialect(h.dialect)}, h.opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}
	log := h.logger.With(zap.String("url", url))
	log.Info("sending request", zap.Int("bytes", len(body)), zap.Stringer("dialect", h.dialect))
	log.Debug("request payload", zap.ByteString("body", body))

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", ContentType)
	hreq.Header.Set("Accept", "*/*, "+ContentType)
	hres, err := h.client.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("error sending request to %s: %w", url, err)
	}
	defer hres.Body.Close()
	data, err := io.ReadAll(hres.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response from %s: %w", url, err)
	}
	log.Info("received response", zap.Int("status", hres.StatusCode), zap.Int("bytes", len(data)))
	log.Debug("response payload", zap.ByteString("body", data))
	if hres.StatusCode < 200 || hres.StatusCode >= 300 {
		return nil, &HTTPError{URL: url, StatusCode: hres.StatusCode, Body: string(data)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w from %s", ErrNoResponse, url)
	}

	d := format.Detect(data)
	res, err := gomap.Unmarshal[envelope.ResponseEnvelope](data,
		append([]gomap.Option{gomap.WithDialect(d), gomap.WithLogger(h.logger)}, h.opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error reading %s response from %s: %w", d, url, err)
	}
	return res, nil
}
