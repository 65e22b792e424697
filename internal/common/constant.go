package common

// SessionCookieName carries the opaque session token issued at login.
const SessionCookieName = "rp_session"

// AuthorizationScheme prefixes access tokens in the Authorization header.
const AuthorizationScheme = "Bearer"
