// Package oneaccount provides a One Account API client and net/http
// middleware for delegating user-identity verification to the provider.
//
// # Architecture
//
// The package exposes a Client bound to one registered application. Its
// Auth method returns standard func(http.Handler) http.Handler middleware
// running the authorization decision procedure; the companion methods
// GetToken, GetUserInfo, and GetExternalToken cover the authorization-code
// exchange, profile fetching, and delegated token issuance.
//
// # Decision procedure
//
// Each protected request passes through ordered gates, the first failure
// aborting the rest:
//
//  1. Extraction - the Authorization header must be present.
//  2. Introspection - the provider is asked whether the token is active.
//     Tokens are opaque to this package; no local verification happens.
//  3. Audience - third-party tokens must have been delegated to this
//     client (aud equals this client's id). First-party tokens skip this
//     gate and the next one.
//  4. Scope sufficiency - every required scope must be granted in its
//     namespaced form "<clientID>.<scope>".
//
// Required scopes are the union of Config.DefaultRequiredScopes and the
// route's Options.RequiredScopes, defaults first, duplicates preserved.
//
// # Context attachment
//
// The outcome is attached to the request context as an *AuthContext:
//
//	info, ok := oneaccount.FromContext(r.Context())
//	if ok && info.Active {
//		userID := info.Sub
//	}
//
// On failed authorizations the attachment still happens, with Active=false
// and Error recording the code, so downstream code and error handlers can
// inspect why authorization failed.
//
// # Error handling
//
// Failed authorizations are answered with
//
//	{"code":401,"status":"failed","error":{"message":"Not authenticated."}}
//
// and a WWW-Authenticate challenge; insufficient scopes use status 403.
// Setting Config.DisableErrorResponses hands failures to the configured
// ErrorHandler instead, for hosts that centralize error rendering.
// Companion-method failures carry a single coarse code per operation
// (e.g. COULDNT_GET_TOKEN) while retaining the underlying cause in the
// error chain for errors.Is/As.
//
// # Usage
//
//	client, err := oneaccount.New(oneaccount.Config{
//		ClientID:     os.Getenv("ONEACCOUNT_CLIENT_ID"),
//		ClientSecret: os.Getenv("ONEACCOUNT_CLIENT_SECRET"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mux := http.NewServeMux()
//	mux.Handle("/me", client.Auth(oneaccount.Options{
//		RequiredScopes: []string{"profile"},
//	})(http.HandlerFunc(me)))
package oneaccount
