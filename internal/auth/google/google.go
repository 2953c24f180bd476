// Package google talks to the Google OAuth2 endpoints: it builds the
// authorization URL clients redirect users to, and exchanges the returned
// authorization code for an identity assertion.
package google

import (
	"context"

	"golang.org/x/oauth2"
	googleendpoint "golang.org/x/oauth2/google"

	dErrors "tracker-gateway/pkg/domain-errors"
)

// UserInfoEmailScope is the only scope the gateway ever requests.
const UserInfoEmailScope = "https://www.googleapis.com/auth/userinfo.email"

// Assertion is the raw response of a code exchange. It is transient: it lives
// only for the duration of one login and is never persisted. IDToken may be
// empty when the exchange was performed without an identity scope or with a
// stale code.
type Assertion struct {
	IDToken string
}

// Client performs the OAuth2 authorization-code flow against Google.
// Credentials are injected at construction; the client never reads process
// configuration.
type Client struct {
	conf *oauth2.Config
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the provider endpoints. Tests point this at a local
// server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(c *Client) {
		c.conf.Endpoint = endpoint
	}
}

// NewClient builds a Client from the registered OAuth2 client credentials.
func NewClient(clientID, clientSecret, redirectURI string, opts ...Option) *Client {
	c := &Client{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{UserInfoEmailScope},
			Endpoint:     googleendpoint.Endpoint,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginURL returns the provider authorization URL the client should redirect
// the user to. Built this way so clients never need to hold Google
// credentials themselves. Pure and deterministic given configuration.
func (c *Client) LoginURL() string {
	return c.conf.AuthCodeURL("", oauth2.AccessTypeOffline)
}

// Exchange redeems an authorization code for an identity assertion.
// Authorization codes are single-use and short-lived by provider contract, so
// a failed exchange is never retried: retrying a consumed code is guaranteed
// to fail by provider policy.
func (c *Client) Exchange(ctx context.Context, code string) (*Assertion, error) {
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "authorization code exchange failed")
	}

	idToken, _ := tok.Extra("id_token").(string)
	return &Assertion{IDToken: idToken}, nil
}
