package oneaccount

import "strings"

// effectiveScopes merges the configured default scopes with a route's own
// required scopes. Defaults come first, order is preserved and duplicates
// are kept: the attached context must reflect exactly what was checked.
func effectiveScopes(defaults, route []string) []string {
	if len(defaults) == 0 && len(route) == 0 {
		return nil
	}
	merged := make([]string, 0, len(defaults)+len(route))
	merged = append(merged, defaults...)
	merged = append(merged, route...)
	return merged
}

// parseScopes parses a space-separated scope string into a slice.
func parseScopes(scopeStr string) []string {
	if scopeStr == "" {
		return nil
	}

	parts := strings.Split(scopeStr, " ")
	var scopes []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			scopes = append(scopes, trimmed)
		}
	}
	return scopes
}

// notGrantedScopes returns the required scopes whose namespaced form
// "<clientID>.<scope>" is absent from the granted set. Scopes are
// namespaced per client: a delegated token granting "acme.read" satisfies
// the requirement "read" only for the client "acme". Order follows the
// required list.
func notGrantedScopes(clientID string, required, granted []string) []string {
	if len(required) == 0 {
		return nil
	}

	grantedSet := make(map[string]struct{}, len(granted))
	for _, g := range granted {
		grantedSet[g] = struct{}{}
	}

	var missing []string
	for _, req := range required {
		if _, ok := grantedSet[clientID+"."+req]; !ok {
			missing = append(missing, req)
		}
	}
	return missing
}
