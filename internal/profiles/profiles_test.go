package profiles

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfiles(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write profiles file: %v", err)
	}
	return file
}

func TestLoadProfilesYAML(t *testing.T) {
	file := writeProfiles(t, "profiles.yaml", `
profiles:
  - id: staging
    name: Staging Console
    base_url: https://staging.console.test/
    api_version: v1
    headers:
      X-Env: staging
  - id: prod
    name: Production Console
    base_url: https://console.test
    with_credentials: true
`)

	reg, err := Load(file)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(reg.All()))
	}

	p, ok := reg.ByID("staging")
	if !ok {
		t.Fatalf("expected profile id staging to be loaded")
	}
	if p.BaseURL != "https://staging.console.test" {
		t.Fatalf("expected trailing slash trimmed, got %s", p.BaseURL)
	}
	if p.Headers["X-Env"] != "staging" {
		t.Fatalf("unexpected headers: %v", p.Headers)
	}

	prod, _ := reg.ByID("PROD")
	if !prod.WithCredentials {
		t.Fatalf("expected case-insensitive lookup with credentials flag")
	}
	if prod.APIVersion != "v1" {
		t.Fatalf("expected default api_version v1, got %s", prod.APIVersion)
	}
}

func TestLoadProfilesDuplicateID(t *testing.T) {
	file := writeProfiles(t, "profiles.yaml", `
profiles:
  - id: duplicate
    base_url: https://one.test
  - id: duplicate
    base_url: https://two.test
`)

	if _, err := Load(file); err == nil {
		t.Fatalf("expected duplicate profile error, got nil")
	}
}

func TestLoadProfilesRejectsInvalidBaseURL(t *testing.T) {
	file := writeProfiles(t, "profiles.yaml", `
profiles:
  - id: broken
    base_url: "not a url"
`)

	if _, err := Load(file); err == nil {
		t.Fatalf("expected invalid base_url error, got nil")
	}
}

func TestLoadProfilesJSON(t *testing.T) {
	file := writeProfiles(t, "profiles.json", `{"profiles":[{"id":"local","base_url":"http://localhost:8000"}]}`)

	reg, err := Load(file)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, ok := reg.ByID("local"); !ok {
		t.Fatalf("expected profile id local to be loaded")
	}
}
