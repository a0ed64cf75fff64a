package profiles

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package profiles loads named connection profiles (YAML/JSON) describing the
// console environments a client can talk to.

// Profile describes one console environment.
type Profile struct {
	ID              string            `json:"id" yaml:"id"`
	Name            string            `json:"name" yaml:"name"`
	BaseURL         string            `json:"base_url" yaml:"base_url"`
	APIVersion      string            `json:"api_version" yaml:"api_version"`
	Headers         map[string]string `json:"headers" yaml:"headers"`
	WithCredentials bool              `json:"with_credentials" yaml:"with_credentials"`
}

type registryFile struct {
	Profiles []Profile `json:"profiles" yaml:"profiles"`
}

// Registry is an immutable set of loaded profiles.
type Registry struct {
	profiles []Profile
	idx      map[string]Profile
}

// Load reads a profile registry from a YAML or JSON file.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("profiles file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var reg registryFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(raw, &reg); err != nil {
			return nil, fmt.Errorf("parse profiles json: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(raw, &reg); err != nil {
			return nil, fmt.Errorf("parse profiles yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported profiles file extension %q", ext)
	}

	if len(reg.Profiles) == 0 {
		return nil, errors.New("profiles file contains no profiles entries")
	}

	idx := make(map[string]Profile, len(reg.Profiles))
	for i := range reg.Profiles {
		p := sanitize(reg.Profiles[i])
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("profile[%d]: %w", i, err)
		}
		if _, exists := idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		reg.Profiles[i] = p
		idx[p.ID] = p
	}

	return &Registry{profiles: reg.Profiles, idx: idx}, nil
}

// All returns a copy of the loaded profiles.
func (r *Registry) All() []Profile {
	if r == nil || len(r.profiles) == 0 {
		return nil
	}
	out := make([]Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

// ByID returns the profile with the given id, if loaded.
func (r *Registry) ByID(id string) (Profile, bool) {
	id = strings.TrimSpace(strings.ToLower(id))
	if r == nil || id == "" {
		return Profile{}, false
	}
	p, ok := r.idx[id]
	return p, ok
}

func sanitize(p Profile) Profile {
	p.ID = strings.TrimSpace(strings.ToLower(p.ID))
	p.Name = strings.TrimSpace(p.Name)
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	p.APIVersion = strings.TrimSpace(p.APIVersion)
	if p.APIVersion == "" {
		p.APIVersion = "v1"
	}
	return p
}

func validate(p Profile) error {
	if p.ID == "" {
		return errors.New("profile id is empty")
	}
	if p.BaseURL == "" {
		return errors.New("base_url is empty")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", p.BaseURL)
	}
	return nil
}
