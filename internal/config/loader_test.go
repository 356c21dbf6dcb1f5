// internal/config/loader_test.go
//
// Unit-tests for the layered loader.  Each test writes a throw-away
// conf/global.yaml under t.TempDir() and calls LoadFrom directly, so the
// process working directory never matters.

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeSecrets satisfies SecretSource with a static map keyed by "path#key".
type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return root
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	root := writeYAML(t, "http:\n  listen_addr: \":9000\"\n  force_https: true\n")
	t.Setenv("CONTACT_HTTP__LISTEN_ADDR", "localhost:9100")

	cfg, err := LoadFrom(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.HTTP.ListenAddr != "localhost:9100" {
		t.Fatalf("listen_addr = %q, want env override", cfg.HTTP.ListenAddr)
	}
	if !cfg.HTTP.ForceHTTPS {
		t.Fatalf("force_https lost from YAML layer")
	}
	if cfg.Paths.Root != root {
		t.Fatalf("root = %q, want %q", cfg.Paths.Root, root)
	}
	if Get() != cfg {
		t.Fatalf("Get() did not return the cached config")
	}
}

func TestLoadFrom_ResolvesVaultReference(t *testing.T) {
	root := writeYAML(t, "http:\n  listen_addr: \":8080\"\nsecurity:\n  csrf_key: \"vault:secret/contact#csrf_key\"\n")
	key := strings.Repeat("k", 40)

	cfg, err := LoadFrom(context.Background(), root, fakeSecrets{"secret/contact#csrf_key": key})
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Security.CSRFKey != key {
		t.Fatalf("csrf_key = %q, want resolved secret", cfg.Security.CSRFKey)
	}
}

func TestLoadFrom_VaultReferenceWithoutClient(t *testing.T) {
	root := writeYAML(t, "http:\n  listen_addr: \":8080\"\nsecurity:\n  csrf_key: \"vault:secret/contact#csrf_key\"\n")

	if _, err := LoadFrom(context.Background(), root, nil); err == nil {
		t.Fatalf("expected error for unresolved vault reference")
	}
	if !HasSecretRefs(root) {
		t.Fatalf("HasSecretRefs = false, want true")
	}
}

func TestLoadFrom_RejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"missing listen addr": "http:\n  force_https: false\n",
		"short csrf key":      "http:\n  listen_addr: \":8080\"\nsecurity:\n  csrf_key: short\n",
		"unknown log level":   "http:\n  listen_addr: \":8080\"\nlog:\n  level: chatty\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			root := writeYAML(t, body)
			if _, err := LoadFrom(context.Background(), root, nil); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestParseSecretRef(t *testing.T) {
	path, key, err := parseSecretRef("vault:secret/contact#csrf_key")
	if err != nil || path != "secret/contact" || key != "csrf_key" {
		t.Fatalf("got (%q, %q, %v)", path, key, err)
	}
	for _, bad := range []string{"vault:secret/contact", "vault:#key", "vault:secret#"} {
		if _, _, err := parseSecretRef(bad); err == nil {
			t.Errorf("parseSecretRef(%q) accepted malformed ref", bad)
		}
	}
}
