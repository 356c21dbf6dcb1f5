// internal/vault/vault_test.go
//
// Unit-tests for KV-v2 secret reads.
//
// Context
// -------
// An httptest server plays the Vault KV-v2 data endpoint so GetKV runs the
// real SDK request path without a Vault binary.
//
// Workflow
// --------
//  1. Point VAULT_ADDR at the fake and set a dummy VAULT_TOKEN.
//  2. Read two keys of one secret and count upstream requests.
//  3. Check missing and non-string keys fail with a message.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kvBody = `{"data":{"data":{"csrf_key":"s3cret","other":"x","count":3},` +
	`"metadata":{"created_time":"2024-01-01T00:00:00Z","deletion_time":"","destroyed":false,"version":1}}}`

func fakeVault(t *testing.T) *atomic.Int32 {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/secret/data/contact" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(kvBody))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("VAULT_ADDR", srv.URL)
	t.Setenv("VAULT_TOKEN", "test-token")
	return &hits
}

func TestSplitMount(t *testing.T) {
	cases := []struct{ in, mount, rel string }{
		{"secret/contact", "secret", "contact"},
		{"secret/contact/csrf", "secret", "contact/csrf"},
		{"secret", "secret", ""},
		{"", "", ""},
	}
	for _, c := range cases {
		m, r := splitMount(c.in)
		if m != c.mount || r != c.rel {
			t.Errorf("splitMount(%q) = (%q, %q), want (%q, %q)", c.in, m, r, c.mount, c.rel)
		}
	}
}

func TestNew_RequiresAddress(t *testing.T) {
	t.Setenv("VAULT_ADDR", "")
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error without VAULT_ADDR")
	}
}

func TestGetKV_CachesPerPath(t *testing.T) {
	hits := fakeVault(t)
	c, err := New(nil)
	require.NoError(t, err)
	ctx := context.Background()

	v, err := c.GetKV(ctx, "secret/contact", "csrf_key", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	v, err = c.GetKV(ctx, "secret/contact", "other", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	assert.EqualValues(t, 1, hits.Load(), "second key should come from cache")
}

func TestGetKV_NoTTLAlwaysReads(t *testing.T) {
	hits := fakeVault(t)
	c, err := New(nil)
	require.NoError(t, err)

	for range 2 {
		_, err := c.GetKV(context.Background(), "secret/contact", "csrf_key", 0)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, hits.Load())
}

func TestGetKV_Errors(t *testing.T) {
	fakeVault(t)
	c, err := New(nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.GetKV(ctx, "secret/contact", "missing", time.Minute)
	assert.ErrorContains(t, err, `key "missing" not found`)

	_, err = c.GetKV(ctx, "secret/contact", "count", time.Minute)
	assert.ErrorContains(t, err, "not a string")

	_, err = c.GetKV(ctx, "secret/elsewhere", "csrf_key", time.Minute)
	assert.Error(t, err)

	_, err = c.GetKV(ctx, "", "csrf_key", time.Minute)
	assert.Error(t, err)
}
