package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/saturncloud/examples/internal/fetch"
)

// ManifestV2MediaType is the Accept header pinned on manifest lookups.
const ManifestV2MediaType = "application/vnd.docker.distribution.manifest.v2+json"

// Options configures a Client.
type Options struct {
	TokenURL    string // e.g. https://auth.docker.io/token
	Service     string // e.g. registry.docker.io
	RegistryURL string // e.g. https://registry-1.docker.io
	Timeout     time.Duration
	Verbose     bool
}

// Client checks image existence with a token exchange followed by a
// manifest lookup. Definitive answers are memoised per name:tag, so a
// Client is meant to live for one run. It is safe for concurrent use.
type Client struct {
	opts   Options
	client *http.Client
	cache  sync.Map // name:tag -> bool
}

// NewClient creates a registry client with pooled connections.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = fetch.DefaultTimeout
	}
	opts.RegistryURL = strings.TrimSuffix(opts.RegistryURL, "/")

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		opts: opts,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}
}

type tokenResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// ImageExists reports whether imageName:imageTag can be pulled.
//
// A token endpoint failure returns an *AuthError and an unreachable registry a
// *TransportError. Any manifest status other than 200 means the image does
// not exist and is not an error.
func (c *Client) ImageExists(ctx context.Context, imageName, imageTag string) (bool, error) {
	key := imageName + ":" + imageTag
	if cached, ok := c.cache.Load(key); ok {
		return cached.(bool), nil
	}

	token, err := c.token(ctx, imageName)
	if err != nil {
		return false, err
	}

	manifestURL := fmt.Sprintf("%s/v2/%s/manifests/%s", c.opts.RegistryURL, imageName, url.PathEscape(imageTag))
	result, err := fetch.URL(ctx, manifestURL, &fetch.Options{
		Client: c.client,
		Headers: map[string]string{
			"Accept":        ManifestV2MediaType,
			"Authorization": "Bearer " + token,
		},
	})
	if err != nil && result == nil {
		return false, &TransportError{Image: key, Message: "manifest request failed", Cause: err}
	}

	exists := result.StatusCode == http.StatusOK
	if c.opts.Verbose {
		log.Printf("[REGISTRY] %s manifest status %d", key, result.StatusCode)
	}
	c.cache.Store(key, exists)
	return exists, nil
}

// token requests a pull-scoped bearer token for imageName.
func (c *Client) token(ctx context.Context, imageName string) (string, error) {
	result, err := fetch.URL(ctx, c.opts.TokenURL, &fetch.Options{
		Client: c.client,
		Query: url.Values{
			"scope":   {"repository:" + imageName + ":pull"},
			"service": {c.opts.Service},
		},
	})
	if err != nil {
		var fetchErr *fetch.Error
		if result == nil && errors.As(err, &fetchErr) {
			return "", &TransportError{Image: imageName, Message: "token request failed", Cause: err}
		}
		return "", &AuthError{Image: imageName, Message: "token request rejected", Cause: err}
	}

	var tr tokenResponse
	if err := json.Unmarshal(result.Body, &tr); err != nil {
		return "", &AuthError{Image: imageName, Message: "failed to decode token response", Cause: err}
	}
	if tr.Token == "" {
		tr.Token = tr.AccessToken
	}
	if tr.Token == "" {
		return "", &AuthError{Image: imageName, Message: "token response has no token"}
	}
	return tr.Token, nil
}
