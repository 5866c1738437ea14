// Package auth resolves the identity of each request.
//
// Credentials are never handled here. Identity is either fixed or delegated
// to an upstream identity provider that forwards the authenticated subject in
// a trusted header:
//   - "none": every request acts as AUTH_DEFAULT_USER (default)
//   - "header": the user id is read from AUTH_USER_HEADER; requests without it get 401
//
// # Configuration
//
//	AUTH_MODE=header
//	AUTH_USER_HEADER=X-User-ID
//	AUTH_DEFAULT_USER=local
//
// The header mode is only safe behind a proxy that strips client-supplied
// copies of the header.
//
// # Usage
//
//	router.Use(auth.NewMiddleware(cfg.Auth).Handler())
//
// Extract the user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
