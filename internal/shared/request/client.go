package request

import "strings"

type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientMobile ClientType = "mobile"
	ClientAPI    ClientType = "api"
)

// ResolveClientType prefers the explicit X-Client-Type header and falls
// back to sniffing the user agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch strings.ToLower(strings.TrimSpace(header)) {
	case string(ClientWeb):
		return ClientWeb
	case string(ClientMobile):
		return ClientMobile
	case string(ClientAPI):
		return ClientAPI
	}

	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "mozilla"):
		return ClientWeb
	case strings.Contains(ua, "okhttp"), strings.Contains(ua, "cfnetwork"), strings.Contains(ua, "dart"):
		return ClientMobile
	default:
		return ClientAPI
	}
}

func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}
