package twitter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultSignerCacheSize = 16

// signer hands out OAuth1-signed HTTP clients, one per credential set.
type signer struct {
	base    *http.Client
	timeout time.Duration
	clients *lru.Cache[Credentials, *http.Client]
}

func newSigner(base *http.Client, timeout time.Duration, size int) (*signer, error) {
	if base == nil {
		base = http.DefaultClient
	}
	if size <= 0 {
		size = defaultSignerCacheSize
	}

	clients, err := lru.New[Credentials, *http.Client](size)
	if err != nil {
		return nil, fmt.Errorf("create signer cache: %w", err)
	}

	return &signer{
		base:    base,
		timeout: timeout,
		clients: clients,
	}, nil
}

// client returns the signed client for creds, building it on first use.
func (s *signer) client(creds Credentials) *http.Client {
	if client, ok := s.clients.Get(creds); ok {
		return client
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)

	// oauth1 picks the underlying transport out of the context.
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, s.base)
	client := config.Client(ctx, token)
	client.Timeout = s.timeout

	s.clients.Add(creds, client)
	return client
}
