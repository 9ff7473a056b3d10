// Package jwt implements RS256 JSON Web Token signing and validation
// for the Pesona API.
//
// Access tokens carry the user's ID, username, email, and role. The role
// claim is what the authorization middleware inspects, so tokens must be
// re-issued when a user's role changes; the short expiration keeps the
// window between a role change and its enforcement small.
//
// # Usage
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    PublicKeyPath:  "./keys/public.pem",
//	    Issuer:         "api.pesona.travel",
//	    ExpirationMins: 15,
//	})
//
//	token, err := svc.Sign(jwt.Claims{UserID: user.ID, Role: string(user.Role)})
//	claims, err := svc.Validate(token)
//
// Keys are PEM-encoded RSA; GenerateKeyPair creates a pair for local
// development. NewTestService builds a service around an in-memory key
// for tests.
package jwt
