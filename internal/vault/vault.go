// internal/vault/vault.go
//
// KV-v2 secret lookups for configuration references.
//
// Context
// -------
// Config values written as `vault:<mount>/<path>#<key>` are resolved once at
// boot by internal/config.  The only secret the contact service keeps there
// is the CSRF signing key, so this package is a thin read path: one KV-v2 GET
// per secret path, with the whole data map cached so sibling keys share the
// round trip.
//
// Workflow
// --------
//  1. cli, err := vault.New(log)                       // VAULT_ADDR set.
//  2. cfg, err := config.Load(ctx, cli)                // calls GetKV.
//
// Notes
// -----
// • Tokens are not renewed.  Secrets are read during boot only.
// • Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/yanizio/adept-contact/internal/config"
)

var _ config.SecretSource = (*Client)(nil)

// Client reads KV-v2 secrets.  Safe for concurrent use.
type Client struct {
	api *vault.Client
	log *zap.SugaredLogger

	mu    sync.Mutex
	paths map[string]entry // secret path → data map + expiry
}

type entry struct {
	data map[string]any
	exp  time.Time
}

// New builds a client from VAULT_ADDR and VAULT_TOKEN (or ~/.vault-token).
func New(log *zap.SugaredLogger) (*Client, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if os.Getenv("VAULT_ADDR") == "" {
		return nil, errors.New("vault: VAULT_ADDR is not set")
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault: env: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault: client: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	return &Client{api: api, log: log, paths: make(map[string]entry)}, nil
}

// GetKV returns one string key of the secret at secretPath ("secret/contact").
// With ttl > 0 the secret's data is reused for that long.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}

	data, err := c.read(ctx, secretPath, ttl)
	if err != nil {
		return "", err
	}

	raw, ok := data[key]
	if !ok {
		return "", fmt.Errorf("vault: key %q not found in %q", key, secretPath)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: %s#%s is %T, not a string", secretPath, key, raw)
	}
	return s, nil
}

func (c *Client) read(ctx context.Context, secretPath string, ttl time.Duration) (map[string]any, error) {
	if ttl > 0 {
		c.mu.Lock()
		e, ok := c.paths[secretPath]
		c.mu.Unlock()
		if ok && time.Now().Before(e.exp) {
			return e.data, nil
		}
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return nil, fmt.Errorf("vault: get %s: %w", secretPath, err)
	}
	c.log.Debugw("vault secret read", "path", secretPath, "keys", len(sec.Data))

	if ttl > 0 {
		c.mu.Lock()
		c.paths[secretPath] = entry{data: sec.Data, exp: time.Now().Add(ttl)}
		c.mu.Unlock()
	}
	return sec.Data, nil
}

// splitMount separates the KV mount from the path below it.
func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return
}
