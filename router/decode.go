package router

import (
	"net/url"
	"strings"
)

// decodeSegment percent-decodes one raw path segment. "+" is left as-is:
// plus-to-space conversion belongs to query-string decoding only, and the
// two decoders are deliberately separate (query parameters keep their own
// url.Values semantics).
func decodeSegment(raw string) (string, error) {
	if !strings.Contains(raw, "%") {
		return raw, nil
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", err
	}

	return decoded, nil
}
