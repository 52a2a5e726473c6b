package release

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sassbin/sassbin/internal/system"
)

const (
	// CACertEnvVar overrides the certificate-authority bundle used for TLS
	// peer verification.
	CACertEnvVar = "SASSBIN_CACERT"

	// fetchTimeout bounds one download request.
	fetchTimeout = 5 * time.Minute
)

// Fetcher performs HTTPS GETs against versioned release URLs. The underlying
// HTTP client is initialized lazily on first use and honors the
// HTTP_PROXY/HTTPS_PROXY environment variables and a CA bundle override. It
// does not follow redirects automatically: a single 302 hop is re-issued
// manually, anything beyond that is an error.
type Fetcher struct {
	env system.Environment

	initOnce sync.Once
	initErr  error
	client   *http.Client
}

// NewFetcher creates a new fetcher.
func NewFetcher(env system.Environment) *Fetcher {
	return &Fetcher{
		env: env,
	}
}

// Fetch performs a GET against the given URL and returns the final response
// body. It follows exactly one 302 redirect hop; a second redirect or any
// non-200 terminal response is an error naming the URL and status.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	logger := slog.Default().With("url", url)

	if err := f.init(); err != nil {
		logger.Error("error initializing http client", "err", err)
		return nil, err
	}

	resp, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusFound {
		location := resp.Header.Get("Location")
		logger.Debug("following redirect", "location", location)

		redirected, redirectErr := f.get(ctx, location)
		if redirectErr != nil {
			return nil, redirectErr
		}
		defer redirected.Body.Close()

		if redirected.StatusCode != http.StatusOK {
			err = fmt.Errorf(
				"unexpected status fetching %s (redirected from %s): %s",
				location, url, redirected.Status,
			)
			logger.Error("error fetching release", "err", err)
			return nil, err
		}

		return readBody(redirected)
	}

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected status fetching %s: %s", url, resp.Status)
		logger.Error("error fetching release", "err", err)
		return nil, err
	}

	return readBody(resp)
}

// get issues one GET without redirect following.
func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	return resp, nil
}

// init builds the HTTP client on first use. It is idempotent and safe to call
// repeatedly; initialization failures are sticky.
func (f *Fetcher) init() error {
	f.initOnce.Do(func() {
		tlsConfig := &tls.Config{
			MinVersion: tls.VersionTLS12,
		}

		if caFile, ok := f.env.Get(CACertEnvVar); ok && caFile != "" {
			pool, err := loadCertPool(caFile)
			if err != nil {
				f.initErr = err
				return
			}
			tlsConfig.RootCAs = pool
		}

		f.client = &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				TLSClientConfig: tlsConfig,
			},
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	})

	return f.initErr
}

// loadCertPool loads a PEM certificate-authority bundle from a file.
func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA bundle %s: %w", path, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in CA bundle %s", path)
	}

	return pool, nil
}

// readBody reads a response body into memory.
func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}
