package storage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultTimeout bounds a single storage request when timeout_seconds is unset.
const DefaultTimeout = 30 * time.Second

// Client is the object storage surface the state mirror needs.
type Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
}

// Timeout is the deadline applied to every mirror request.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Target returns the host:port minio dials and whether TLS is used.
// A scheme on the endpoint takes precedence over UseSSL.
func (c Config) Target() (string, bool, error) {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("storage endpoint is empty")
	}
	if !strings.Contains(endpoint, "://") {
		if strings.ContainsAny(endpoint, "/?#") {
			return "", false, fmt.Errorf("storage endpoint %q must be a bare host", endpoint)
		}
		return endpoint, c.UseSSL, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid storage endpoint %q: %w", endpoint, err)
	}
	if u.Path != "" && u.Path != "/" {
		return "", false, fmt.Errorf("storage endpoint %q must not carry a path", endpoint)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("storage endpoint %q has unsupported scheme %q", endpoint, u.Scheme)
	}
}

// NewTransport builds the HTTP transport for mirror requests. Connection setup
// and the wait for response headers are both bounded by the configured timeout.
func NewTransport(cfg Config) *http.Transport {
	timeout := cfg.Timeout()
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
		// One state object per bucket; a small idle pool is enough.
		MaxIdleConns:          4,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
}

// NewClient creates a minio-backed Client whose requests never outlive cfg.Timeout().
func NewClient(cfg Config) (Client, error) {
	return newClient(cfg, cfg.Timeout())
}

func newClient(cfg Config, timeout time.Duration) (*boundedClient, error) {
	host, secure, err := cfg.Target()
	if err != nil {
		return nil, err
	}

	mc, err := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: NewTransport(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	// minio connects lazily; the first BucketExists is the reachability check.
	return &boundedClient{mc: mc, region: cfg.Region, timeout: timeout}, nil
}

// boundedClient applies a per-request deadline so a stalled bucket cannot
// hold up a state save.
type boundedClient struct {
	mc      *minio.Client
	region  string
	timeout time.Duration
}

func (c *boundedClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.mc.BucketExists(ctx, bucketName)
}

func (c *boundedClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if opts.Region == "" {
		opts.Region = c.region
	}
	return c.mc.MakeBucket(ctx, bucketName, opts)
}

func (c *boundedClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.mc.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}

// GetObject keeps the deadline running until the returned reader is closed.
func (c *boundedClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	obj, err := c.mc.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		cancel()
		return nil, err
	}
	return &cancelOnClose{ReadCloser: obj, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelOnClose) Close() error {
	defer r.cancel()
	return r.ReadCloser.Close()
}
