package auth

// Known OAuth scopes used by the social API.
const (
	ScopeSocialWrite = "social:write"
	ScopeSocialRead  = "social:read"
)
