/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package githubauth

import (
	"context"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{{
		name: "token mode",
		cfg:  Config{Token: "ghp_x"},
	}, {
		name: "app mode",
		cfg:  Config{AppID: 1, InstallationID: 2, PrivateKeyPath: "/k.pem"},
	}, {
		name:    "empty",
		cfg:     Config{},
		wantErr: true,
	}, {
		name:    "both modes",
		cfg:     Config{Token: "ghp_x", AppID: 1, InstallationID: 2, PrivateKeyPath: "/k.pem"},
		wantErr: true,
	}, {
		name:    "partial app triple",
		cfg:     Config{AppID: 1},
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewClient_Token(t *testing.T) {
	client, err := NewClient(context.Background(), Config{Token: "ghp_x"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client == nil {
		t.Fatal("nil client")
	}
}

func TestNewClient_BadKeyPath(t *testing.T) {
	_, err := NewClient(context.Background(), Config{
		AppID: 1, InstallationID: 2, PrivateKeyPath: "/does/not/exist.pem",
	})
	if err == nil {
		t.Fatal("expected error for missing key file")
	}
}

func TestClientCache(t *testing.T) {
	cc, err := NewClientCache(0)
	if err != nil {
		t.Fatalf("NewClientCache: %v", err)
	}

	ctx := context.Background()
	a, err := cc.Get(ctx, Config{Token: "ghp_a"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	again, err := cc.Get(ctx, Config{Token: "ghp_a"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a != again {
		t.Error("same credential scope should reuse the client")
	}

	b, err := cc.Get(ctx, Config{Token: "ghp_b"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a == b {
		t.Error("different credential scopes must not share a client")
	}

	if _, err := cc.Get(ctx, Config{}); err == nil {
		t.Error("expected validation error for empty config")
	}
}
