package gin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "gindownload/pkg/errors"
	"gindownload/pkg/logger"
)

// Options configures the HTTP transport used for GIN requests
type Options struct {
	// Timeout bounds a whole request. Zero means no timeout.
	Timeout      time.Duration
	ProxyAddress string
	Username     string
	Password     string
	UserAgent    string
}

// Client performs GIN downloads
type Client struct {
	httpClient *http.Client
	opts       Options
	logger     logger.Logger
}

// NewClient builds a client. An unparsable proxy address is an error.
func NewClient(opts Options, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.ProxyAddress != "" {
		proxyURL, err := parseProxy(opts.ProxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:   opts,
		logger: log,
	}, nil
}

// parseProxy accepts host:port as well as full URLs
func parseProxy(addr string) (*url.URL, error) {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid proxy address %q", addr)
	}
	return u, nil
}

// Fetch downloads rawURL into w and returns the number of bytes written
func (c *Client) Fetch(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, errs.New(errs.ErrorTypeNetwork, "fetch", "", err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	if c.opts.Username != "" {
		req.SetBasicAuth(c.opts.Username, c.opts.Password)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending GIN request", map[string]interface{}{
		"url": rawURL,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errs.New(errs.ErrorTypeNetwork, "fetch", "", err)
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		c.logger.WarnWithFields("GIN request rejected", map[string]interface{}{
			"url":    rawURL,
			"status": resp.StatusCode,
		})
		return 0, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, errs.New(errs.ErrorTypeIO, "fetch", "", err)
	}

	c.logger.DebugWithFields("GIN request completed", map[string]interface{}{
		"url":      rawURL,
		"bytes":    n,
		"duration": time.Since(start),
	})
	return n, nil
}

func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	typ := errs.TypeForStatusCode(resp.StatusCode)
	if typ == errs.ErrorTypeUnknown {
		typ = errs.ErrorTypeNetwork
	}
	return &errs.Error{
		Type:    typ,
		Op:      "fetch",
		Code:    resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}
}
