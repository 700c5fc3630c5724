/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package githubauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"
)

// Config selects an authentication mode. Exactly one of the token or the
// App triple must be set.
type Config struct {
	// Token is a personal access token (PAT mode).
	Token string

	// AppID, InstallationID, and PrivateKeyPath identify a GitHub App
	// installation (App mode).
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
}

// Validate checks that the configuration selects exactly one mode.
func (c Config) Validate() error {
	hasToken := c.Token != ""
	hasApp := c.AppID != 0 || c.InstallationID != 0 || c.PrivateKeyPath != ""

	switch {
	case hasToken && hasApp:
		return errors.New("both token and app credentials set; pick one")
	case hasToken:
		return nil
	case hasApp:
		if c.AppID == 0 || c.InstallationID == 0 || c.PrivateKeyPath == "" {
			return errors.New("app mode requires app ID, installation ID, and private key path")
		}
		return nil
	default:
		return errors.New("no GitHub credential configured")
	}
}

// cacheKey identifies a credential scope for client reuse. The token itself
// is part of the key; two different tokens must not share a client.
func (c Config) cacheKey() string {
	if c.Token != "" {
		return "token:" + c.Token
	}
	return fmt.Sprintf("app:%d:%d:%s", c.AppID, c.InstallationID, c.PrivateKeyPath)
}

// NewClient builds an authenticated GitHub client for the configured mode.
func NewClient(ctx context.Context, cfg Config) (*github.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		return github.NewClient(oauth2.NewClient(ctx, ts)), nil
	}

	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, cfg.AppID, cfg.InstallationID, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	return github.NewClient(&http.Client{Transport: itr}), nil
}
