// Package auth provides credentials for authenticated artifact hubs.
// Remote hubs may require a static bearer token or an OAuth2 client
// credentials flow; both implement the Credentials interface consumed
// by the HTTP loader.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Credentials injects authentication material into outgoing hub requests.
type Credentials interface {
	// SetAuthHeader sets the Authorization header on r, refreshing
	// underlying tokens when needed.
	SetAuthHeader(r *http.Request) error
}

// StaticToken is a fixed bearer token, typically issued out of band.
type StaticToken struct {
	Token string
}

func (s StaticToken) SetAuthHeader(r *http.Request) error {
	if s.Token == "" {
		return fmt.Errorf("static token is empty")
	}
	r.Header.Set("Authorization", "Bearer "+s.Token)
	return nil
}

// ClientCred obtains and caches tokens through the OAuth2 client
// credentials grant. Tokens are refreshed lazily on expiry.
type ClientCred struct {
	conf  clientcredentials.Config
	token *oauth2.Token
}

func NewClientCred(conf Conf) *ClientCred {
	return &ClientCred{
		conf: conf.toOauth2Config(),
	}
}

// GetToken retrieves a valid access token. If the cached token is still
// valid it is returned as is, otherwise a new token is requested using
// the client credentials configuration.
func (c *ClientCred) GetToken() (string, error) {
	if c.token != nil && c.token.Valid() {
		return c.token.AccessToken, nil
	}
	if err := c.getToken(); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

func (c *ClientCred) getToken() error {
	var err error
	c.token, err = c.conf.Token(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}
	return nil
}

// ForceRefresh discards the cached token and requests a fresh one,
// returning the new access token.
func (c *ClientCred) ForceRefresh() (string, error) {
	var err error
	c.token, err = c.conf.Token(context.Background())
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return c.token.AccessToken, nil
}

func (c *ClientCred) SetAuthHeader(r *http.Request) error {
	if c.token != nil && c.token.Valid() {
		c.token.SetAuthHeader(r)
		return nil
	}

	if err := c.getToken(); err != nil {
		return err
	}
	c.token.SetAuthHeader(r)
	return nil
}
