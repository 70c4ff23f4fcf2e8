package common

const (
	// MaxMutationRequestBody limits JSON request bodies on catalog write endpoints.
	MaxMutationRequestBody = 1 << 20
	// MaxAuthRequestBody limits the login payload; it only ever carries a password.
	MaxAuthRequestBody = 4 << 10
)
