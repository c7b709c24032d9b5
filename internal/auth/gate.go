package auth

import (
	"strings"

	"github.com/csukav/Webshop/internal/domain"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is the outcome of the access gate. A redirect is normal control
// flow, not an error.
type Decision struct {
	RedirectTo string
}

func (d Decision) Allowed() bool {
	return d.RedirectTo == ""
}

func allow() Decision {
	return Decision{}
}

func redirectTo(path string) Decision {
	return Decision{RedirectTo: path}
}

// Decide applies the route-guard policy for a request. It is called from two
// enforcement points: the edge middleware, which has no trustworthy role
// information and passes domain.RoleUnknown, and the admin handler layer,
// which re-reads the role through the privileged profile repository. With an
// unknown role the admin-role rule is deferred to the second caller instead
// of being decided on a claim the edge cannot verify.
func Decide(path string, authenticated bool, role domain.Role) Decision {
	adminRoute := isAdminRoute(path)
	authRoute := isAuthRoute(path)

	if !authenticated {
		if adminRoute {
			return redirectTo(LoginPath)
		}
		return allow()
	}

	if authRoute {
		return redirectTo(HomePath)
	}

	if adminRoute && role != domain.RoleUnknown && role != domain.RoleAdmin {
		return redirectTo(HomePath)
	}

	return allow()
}

func isAdminRoute(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/") ||
		strings.Contains(path, "/api/v1/admin")
}

func isAuthRoute(path string) bool {
	return path == LoginPath || strings.HasPrefix(path, LoginPath+"/") ||
		path == "/register" || strings.HasPrefix(path, "/register/")
}
