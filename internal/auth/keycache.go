package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"
)

// KeyFetcher loads the issuer's current public keys, keyed by key id.
type KeyFetcher func(ctx context.Context) (map[string]*rsa.PublicKey, error)

// KeyCache holds the identity provider's signing keys for the lifetime of the
// process. Keys are fetched lazily and refreshed at most once per unknown
// key id; there is no proactive invalidation.
type KeyCache struct {
	fetch KeyFetcher

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

// NewKeyCache builds a cache backed by the given fetcher. Tests inject a
// stub fetcher; production uses NewJWKSFetcher.
func NewKeyCache(fetch KeyFetcher) *KeyCache {
	return &KeyCache{fetch: fetch, keys: map[string]*rsa.PublicKey{}}
}

// Key returns the public key for kid. On a miss the whole set is refetched
// once; a kid still unknown after that is an error.
func (c *KeyCache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key := c.keys[kid]
	c.mu.RUnlock()
	if key != nil {
		return key, nil
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signing keys: %w", err)
	}

	c.mu.Lock()
	c.keys = fresh
	key = c.keys[kid]
	c.mu.Unlock()

	if key == nil {
		return nil, fmt.Errorf("unknown key id: %s", kid)
	}
	return key, nil
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// NewJWKSFetcher fetches the RSA keys published at the issuer's well-known
// JWKS endpoint.
func NewJWKSFetcher(httpClient *http.Client, jwksURL string) KeyFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context) (map[string]*rsa.PublicKey, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
		if err != nil {
			return nil, err
		}
		res, err := httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		if res.StatusCode < 200 || res.StatusCode >= 300 {
			return nil, fmt.Errorf("jwks fetch failed: %s", res.Status)
		}

		var set jwkSet
		if err := json.NewDecoder(res.Body).Decode(&set); err != nil {
			return nil, err
		}

		keys := map[string]*rsa.PublicKey{}
		for _, k := range set.Keys {
			if k.Kty != "RSA" || strings.TrimSpace(k.Kid) == "" {
				continue
			}
			pub, err := rsaFromModExp(k.N, k.E)
			if err != nil {
				continue
			}
			keys[k.Kid] = pub
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("jwks contained no usable RSA keys")
		}
		return keys, nil
	}
}

func rsaFromModExp(nB64, eB64 string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(nB64)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(eB64)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nb)
	e := 0
	for _, b := range eb {
		e = e<<8 + int(b)
	}
	if e == 0 {
		return nil, fmt.Errorf("invalid exponent")
	}
	return &rsa.PublicKey{N: n, E: e}, nil
}
