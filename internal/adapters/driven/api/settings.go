package api

import "github.com/custodia-labs/docassist-cli/internal/core/domain"

// ConfigFromSettings maps API settings onto a client configuration.
func ConfigFromSettings(s domain.APISettings) ClientConfig {
	return ClientConfig{
		Name:              "api",
		BaseURL:           s.BaseURL,
		Timeout:           s.Timeout,
		RequestsPerSecond: s.RequestsPerSecond,
	}
}

// NewFromSettings creates a client for the document-assistant API.
func NewFromSettings(s domain.APISettings) (*Client, error) {
	return NewClient(ConfigFromSettings(s))
}
