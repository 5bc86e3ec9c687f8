package webhook

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	Secret          string   // Shared secret for signature verification
	AllowedIPs      []string // IP whitelist (optional)
	RateLimitPerMin int      // Max requests per minute
}

// generationRequest is the body of a parser generation switch request.
type generationRequest struct {
	Generation string `json:"generation"`
}
