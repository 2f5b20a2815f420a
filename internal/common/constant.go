package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "landchain_session"
