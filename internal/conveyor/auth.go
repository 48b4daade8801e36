package conveyor

import "strings"

// AuthMode selects which authentication header Execute attaches to an
// outgoing request.
type AuthMode int

const (
	// AuthSessionCookie sends the credential verbatim in a Cookie
	// header. Used for browser-session credential bundles.
	AuthSessionCookie AuthMode = iota
	// AuthAccessKey sends the credential as a UserAccessKey
	// Authorization header.
	AuthAccessKey
)

func (m AuthMode) String() string {
	switch m {
	case AuthSessionCookie:
		return "session-cookie"
	case AuthAccessKey:
		return "access-key"
	default:
		return "unknown"
	}
}

// Session-cookie bundles carry the session id and its signature as two
// named cookie pairs; either marker identifies the bundle.
var sessionCookieMarkers = []string{"connect.sid=", "session.sig="}

// ClassifyCredential decides how an opaque credential string should be
// presented to the API. It is a pure function of the string content:
// a credential containing a known session-cookie pair is sent as a
// cookie, anything else is treated as a user access key.
func ClassifyCredential(credential string) AuthMode {
	for _, marker := range sessionCookieMarkers {
		if strings.Contains(credential, marker) {
			return AuthSessionCookie
		}
	}
	return AuthAccessKey
}
