// Package webdav stores encrypted provider documents on a WebDAV server,
// one <remoteDir>/<tool>.json object per tool.
package webdav

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/papercomputeco/switchboard/pkg/logger"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const (
	// DefaultRemoteDir is used when Config.RemoteDir is empty.
	DefaultRemoteDir = "switchboard"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second

	AuthBasic  = "basic"
	AuthDigest = "digest"
)

// Config holds the connection settings.
type Config struct {
	URL       string
	Username  string
	Password  string
	AuthType  string
	RemoteDir string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Client talks to one WebDAV endpoint. Requests are never retried.
type Client struct {
	dav       *gowebdav.Client
	remoteDir string
	logger    *slog.Logger
}

// New validates cfg and returns a Client. No request is made.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid webdav url %q: must be an absolute http(s) URL", cfg.URL)
	}

	authType := strings.ToLower(strings.TrimSpace(cfg.AuthType))
	switch authType {
	case "", AuthBasic, AuthDigest:
	default:
		return nil, fmt.Errorf("invalid webdav auth type %q: must be %s or %s", cfg.AuthType, AuthBasic, AuthDigest)
	}

	dav := gowebdav.NewClient(u.String(), cfg.Username, cfg.Password)
	if authType != AuthDigest && cfg.Username != "" {
		// Send credentials up front instead of waiting for a 401 challenge.
		dav.SetHeader("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(cfg.Username+":"+cfg.Password)))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dav.SetTimeout(timeout)

	dir := strings.Trim(strings.TrimSpace(cfg.RemoteDir), "/")
	if dir == "" {
		dir = DefaultRemoteDir
	}

	return &Client{
		dav:       dav,
		remoteDir: dir,
		logger:    logger.OrNop(cfg.Logger),
	}, nil
}

// RemoteDir returns the absolute remote directory holding the documents.
func (c *Client) RemoteDir() string {
	return path.Join("/", c.remoteDir)
}

// RemotePath returns the object path for t.
func (c *Client) RemotePath(t tool.Tool) string {
	return path.Join("/", c.remoteDir, t.String()+".json")
}

// Ping checks that the server is reachable and the credentials work.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.dav.Connect(); err != nil {
		return &TransportError{Op: "connect", Err: err}
	}
	return nil
}

// Exists reports whether the remote document for t is present.
func (c *Client) Exists(ctx context.Context, t tool.Tool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p := c.RemotePath(t)
	_, err := c.dav.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case gowebdav.IsErrNotFound(err):
		return false, nil
	default:
		return false, &TransportError{Op: "stat", Path: p, Err: err}
	}
}

// ErrNotFound is returned by Download when the remote document is absent.
var ErrNotFound = errors.New("remote document not found")

// Download fetches the remote document for t.
func (c *Client) Download(ctx context.Context, t tool.Tool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := c.RemotePath(t)
	data, err := c.dav.Read(p)
	if err != nil {
		if gowebdav.IsErrNotFound(err) {
			return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
		}
		return nil, &TransportError{Op: "get", Path: p, Err: err}
	}
	c.logger.Debug("downloaded", "tool", t.String(), "path", p, "bytes", len(data))
	return data, nil
}

// Upload replaces the remote document for t, creating the remote
// directory when needed.
func (c *Client) Upload(ctx context.Context, t tool.Tool, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := c.RemoteDir()
	if err := c.dav.MkdirAll(dir, os.ModePerm); err != nil {
		return &TransportError{Op: "mkcol", Path: dir, Err: err}
	}

	p := c.RemotePath(t)
	if err := c.dav.Write(p, data, 0o600); err != nil {
		return &TransportError{Op: "put", Path: p, Err: err}
	}
	c.logger.Debug("uploaded", "tool", t.String(), "path", p, "bytes", len(data))
	return nil
}
