package entity

import (
	"fmt"
	"strings"
)

const DefaultLabel = "My Browser"

// AgentIdentity is generated once and never changes; only Label may be edited.
type AgentIdentity struct {
	ID    string `yaml:"browser_id" json:"browser_id"`
	Label string `yaml:"label" json:"label"`
}

// ServerBinding is scoped to endpoint+credential: editing either clears
// Registered.
type ServerBinding struct {
	Endpoint   string `yaml:"server_url" json:"server_url"`
	Credential string `yaml:"api_key" json:"api_key"`
	Registered bool   `yaml:"registered" json:"registered"`
}

// Settings is an immutable snapshot. The With* methods return modified copies.
type Settings struct {
	Identity AgentIdentity `yaml:"identity" json:"identity"`
	Binding  ServerBinding `yaml:"server" json:"server"`
}

// Complete reports which of endpoint, credential and identity are missing.
func (s Settings) Complete() error {
	var missing []string
	if strings.TrimSpace(s.Binding.Endpoint) == "" {
		missing = append(missing, "server_url")
	}
	if strings.TrimSpace(s.Binding.Credential) == "" {
		missing = append(missing, "api_key")
	}
	if strings.TrimSpace(s.Identity.ID) == "" {
		missing = append(missing, "browser_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteSettings, strings.Join(missing, ", "))
	}
	return nil
}

// Ready is Complete plus a successful registration.
func (s Settings) Ready() error {
	if err := s.Complete(); err != nil {
		return err
	}
	if !s.Binding.Registered {
		return ErrNotRegistered
	}
	return nil
}

func (s Settings) WithBinding(endpoint, credential string) Settings {
	endpoint = strings.TrimSpace(endpoint)
	credential = strings.TrimSpace(credential)
	if endpoint != s.Binding.Endpoint || credential != s.Binding.Credential {
		s.Binding.Registered = false
	}
	s.Binding.Endpoint = endpoint
	s.Binding.Credential = credential
	return s
}

func (s Settings) WithLabel(label string) Settings {
	s.Identity.Label = strings.TrimSpace(label)
	return s
}

// WithIdentity sets the agent ID unless one already exists.
func (s Settings) WithIdentity(id string) Settings {
	if s.Identity.ID == "" {
		s.Identity.ID = id
	}
	return s
}

func (s Settings) MarkRegistered() Settings {
	s.Binding.Registered = true
	return s
}

func (s Settings) Label() string {
	if s.Identity.Label == "" {
		return DefaultLabel
	}
	return s.Identity.Label
}

// Masked hides the credential for display.
func (s Settings) Masked() Settings {
	c := s.Binding.Credential
	switch {
	case c == "":
	case len(c) <= 4:
		s.Binding.Credential = "****"
	default:
		s.Binding.Credential = strings.Repeat("*", len(c)-4) + c[len(c)-4:]
	}
	return s
}
