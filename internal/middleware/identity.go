package middleware

// identity.go holds the context keys JWTAuth fills in and the accessors
// handlers and the rate limiter use to read them back.

import "github.com/labstack/echo/v4"

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// UserID returns the authenticated user's id (hex), or "" for anonymous
// requests.
func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

// Role returns the authenticated user's role, or "".
func Role(c echo.Context) string {
	s, _ := c.Get(ctxRole).(string)
	return s
}

// Email returns the email claim of the access token, or "".
func Email(c echo.Context) string {
	s, _ := c.Get(ctxEmail).(string)
	return s
}

// SetIdentity stores identity values in the context the same way JWTAuth
// does.  Tests and internal callers use it to act on behalf of a user.
func SetIdentity(c echo.Context, userID, email, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxEmail, email)
	c.Set(ctxRole, role)
}

// rateSubject identifies the caller for rate limiting.
func rateSubject(c echo.Context) string {
	if id := UserID(c); id != "" {
		return id
	}
	return "anon"
}
