package config

import "github.com/deltakit/deltakit/auth"

// HubConfig defines where delta artifacts are resolved.
type HubConfig struct {
	// ArtifactRoot is prepended to relative artifact locations, so configs
	// and CLI calls can refer to artifacts by name. Empty leaves locations
	// untouched.
	ArtifactRoot string `json:"artifact_root"`
	// BaseURL switches artifact resolution to a remote hub. Relative
	// locations are fetched as {base_url}/api/artifacts/{name}; absolute
	// http(s) locations are fetched directly.
	BaseURL string `json:"base_url"`
	// Token is a static bearer token. It authenticates requests to a remote
	// hub and protects the artifacts exposed by "deltactl serve".
	Token string `json:"token"`
	// OAuth authenticates hub requests through the OAuth2 client
	// credentials flow. It takes precedence over Token.
	OAuth *auth.Conf `json:"oauth"`
}

// Credentials returns the hub credentials configured, or nil when requests
// need no authentication.
func (c HubConfig) Credentials() auth.Credentials {
	if c.OAuth != nil {
		return auth.NewClientCred(*c.OAuth)
	}
	if c.Token != "" {
		return auth.StaticToken{Token: c.Token}
	}
	return nil
}
