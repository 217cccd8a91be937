// Package guard implements the navigation policies of the console. Guards
// consult only the persisted credential fragment, never the in-memory
// session: they run before the session has hydrated.
package guard

import "github.com/solarops/solar-console/credstore"

// Decision is the outcome of a guard policy. It is a pure value: applying it
// (issuing the redirect) is the adapter's job.
type Decision struct {
	// Target is the redirect destination. Empty means the navigation is
	// allowed.
	Target string
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool { return d.Target == "" }

// Allow lets the navigation proceed.
func Allow() Decision { return Decision{} }

// RedirectTo sends the caller to target instead.
func RedirectTo(target string) Decision { return Decision{Target: target} }

// SignInPath is the public entry point of the console.
const SignInPath = "/"

// LoginRedirect keeps signed-in users off the sign-in screen and signed-out
// users on it. A present token on the root path redirects to the role's home;
// an absent token anywhere but root redirects to root.
func LoginRedirect(path string, creds credstore.Credentials) Decision {
	if creds.AccessToken != "" {
		if path == SignInPath || path == "/sign-in" {
			return RedirectTo(RoleHome(creds.Role))
		}
		return Allow()
	}
	if path != SignInPath {
		return RedirectTo(SignInPath)
	}
	return Allow()
}

// LayoutProtect gates the protected subtree: no token, no entry.
func LayoutProtect(path string, creds credstore.Credentials) Decision {
	if creds.AccessToken == "" {
		return RedirectTo(SignInPath)
	}
	return Allow()
}

// RoleHome returns the root path namespaced by role, falling back to the
// sign-in path when the persisted role is empty.
func RoleHome(role string) string {
	if role == "" {
		return SignInPath
	}
	return "/" + role
}
