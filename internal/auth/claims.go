package auth

import "crown-platform/backend/internal/constants"

// UserClaims is what the middleware attaches to every authenticated
// request, regardless of whether it came from a JWT or a session id.
type UserClaims interface {
	UserID() string
	Email() string
	Role() constants.Role
	Source() string
	Token() string
}

// JWTClaims is built from a validated hosted-auth bearer token.
type JWTClaims struct {
	Subject   string
	EmailVal  string
	RoleValue constants.Role
	RawToken  string
}

func (c *JWTClaims) UserID() string        { return c.Subject }
func (c *JWTClaims) Email() string         { return c.EmailVal }
func (c *JWTClaims) Role() constants.Role  { return c.RoleValue }
func (c *JWTClaims) Source() string        { return "JWT" }
func (c *JWTClaims) Token() string         { return c.RawToken }

// SessionClaims is built from a server-side session lookup.
type SessionClaims struct {
	Subject   string
	EmailVal  string
	RoleValue constants.Role
	SessionID string
	RawToken  string
}

func (c *SessionClaims) UserID() string       { return c.Subject }
func (c *SessionClaims) Email() string        { return c.EmailVal }
func (c *SessionClaims) Role() constants.Role { return c.RoleValue }
func (c *SessionClaims) Source() string       { return "SESSION" }
func (c *SessionClaims) Token() string        { return c.RawToken }
