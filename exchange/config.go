package exchange

import "strings"

const DefaultBaseURL = "https://tinycache.io/api/v1"

// Config is the service endpoint and the credential used to reach it.
type Config struct {
	BaseURL string
	APIKey  string
}

func (c *Config) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}
