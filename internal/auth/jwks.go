// Package auth validates inbound bot-platform bearer tokens. Tokens are
// RS256-signed; signing keys are discovered through the platform's OpenID
// metadata document and cached.
package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const keyRefreshInterval = 12 * time.Hour

// KeyCache resolves RS256 signing keys by key id, refreshing from the JWKS
// endpoint when a key is unknown or the cache is stale.
type KeyCache struct {
	httpClient  *http.Client
	metadataURL string
	log         *slog.Logger

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	refreshed time.Time
}

func NewKeyCache(metadataURL string, log *slog.Logger) *KeyCache {
	if log == nil {
		log = slog.Default()
	}
	return &KeyCache{
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		metadataURL: metadataURL,
		log:         log.With(slog.String("component", "auth")),
		keys:        make(map[string]*rsa.PublicKey),
	}
}

// Keyfunc is the jwt.Keyfunc used to verify inbound tokens.
func (k *KeyCache) Keyfunc(token *jwt.Token) (any, error) {
	kid, _ := token.Header["kid"].(string)
	if kid == "" {
		return nil, errors.New("token missing kid header")
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	key, ok := k.keys[kid]
	if !ok || time.Since(k.refreshed) > keyRefreshInterval {
		if err := k.refresh(); err != nil {
			return nil, fmt.Errorf("refresh signing keys: %w", err)
		}
		key, ok = k.keys[kid]
	}
	if !ok {
		return nil, fmt.Errorf("unknown signing key %q", kid)
	}
	return key, nil
}

type openIDMetadata struct {
	JWKSURI string `json:"jwks_uri"`
}

type jwksDocument struct {
	Keys []jwksKey `json:"keys"`
}

type jwksKey struct {
	KeyType  string `json:"kty"`
	KeyID    string `json:"kid"`
	Use      string `json:"use"`
	Modulus  string `json:"n"`
	Exponent string `json:"e"`
}

func (k *KeyCache) refresh() error {
	var metadata openIDMetadata
	if err := k.fetchJSON(k.metadataURL, &metadata); err != nil {
		return fmt.Errorf("openid metadata: %w", err)
	}
	if metadata.JWKSURI == "" {
		return errors.New("openid metadata has no jwks_uri")
	}

	var document jwksDocument
	if err := k.fetchJSON(metadata.JWKSURI, &document); err != nil {
		return fmt.Errorf("jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(document.Keys))
	for _, entry := range document.Keys {
		if entry.KeyType != "RSA" || entry.KeyID == "" {
			continue
		}
		key, err := entry.publicKey()
		if err != nil {
			k.log.Warn("skipping unparsable signing key",
				slog.String("kid", entry.KeyID), slog.Any("error", err))
			continue
		}
		keys[entry.KeyID] = key
	}
	if len(keys) == 0 {
		return errors.New("jwks contained no usable keys")
	}

	k.keys = keys
	k.refreshed = time.Now()
	k.log.Info("signing keys refreshed", slog.Int("count", len(keys)))
	return nil
}

func (k *KeyCache) fetchJSON(url string, out any) error {
	resp, err := k.httpClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (key jwksKey) publicKey() (*rsa.PublicKey, error) {
	modulus, err := base64.RawURLEncoding.DecodeString(key.Modulus)
	if err != nil {
		return nil, fmt.Errorf("modulus: %w", err)
	}
	exponent, err := base64.RawURLEncoding.DecodeString(key.Exponent)
	if err != nil {
		return nil, fmt.Errorf("exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(modulus),
		E: int(new(big.Int).SetBytes(exponent).Int64()),
	}, nil
}
