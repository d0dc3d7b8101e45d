package transport

import "strings"

// ContentType is the wire Content-Type governing how a request body is
// encoded. Only the four values the capability surface commits to are
// recognized; Post treats any other Content-Type header as application/json.
type ContentType string

const (
	ContentTypeJSON       ContentType = "application/json"
	ContentTypeTextPlain  ContentType = "text/plain"
	ContentTypeFormURL    ContentType = "application/x-www-form-urlencoded"
	ContentTypeXBinary    ContentType = "application/x-binary"
	headerContentType                 = "Content-Type"
	headerCacheTTL                    = "x-cache-ttl"
)

// ParseContentType recognizes one of the four supported MIME strings.
func ParseContentType(s string) (ContentType, bool) {
	switch ContentType(s) {
	case ContentTypeJSON, ContentTypeTextPlain, ContentTypeFormURL, ContentTypeXBinary:
		return ContentType(s), true
	default:
		return "", false
	}
}

func (c ContentType) String() string {
	return string(c)
}

func (c ContentType) requiresStringBody() bool {
	return c == ContentTypeTextPlain || c == ContentTypeFormURL
}

func (c ContentType) requiresHexBody() bool {
	return c == ContentTypeXBinary
}

// headerValue normalizes a header key for lookup regardless of case.
func headerValue(headers map[string]string, key string) (string, bool) {
	if headers == nil {
		return "", false
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
