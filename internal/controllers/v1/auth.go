package v1

import (
	"net/http"

	"github.com/amaken/backend/internal/identity"
	"github.com/gin-gonic/gin"
)

// callerIdentity returns the authenticated caller. The session
// middleware guarantees it is set, this guards against handler misuse.
func callerIdentity(c *gin.Context) (identity.Identity, bool) {
	ident, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, httpError{
			Error: "a bearer token is required",
		})
	}

	return ident, ok
}

// requireAction returns the caller if their role has the capability and
// responds with 403 otherwise.
func requireAction(c *gin.Context, action identity.Action) (identity.Identity, bool) {
	ident, ok := callerIdentity(c)
	if !ok {
		return identity.Identity{}, false
	}

	if !ident.Allows(action) {
		c.JSON(http.StatusForbidden, httpError{
			Error: errActionNotAllowed.Error(),
		})
		return identity.Identity{}, false
	}

	return ident, true
}
