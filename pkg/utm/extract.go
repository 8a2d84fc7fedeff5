package utm

import (
	"net/url"
	"strings"
)

// Extract reads the UTM values of a tagged URL. Values are returned decoded
// but otherwise as found. TargetURL is set to the URL without utm_* keys.
func Extract(rawURL string) (Params, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return Params{}, err
	}

	var p Params
	for _, part := range strings.Split(u.RawQuery, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}
		p.set(key, value)
	}

	p.TargetURL = strip(u)
	return p, nil
}

// Strip removes every utm_* key from rawURL. A URL without a scheme is treated
// as HTTPS.
func Strip(rawURL string) (string, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return "", err
	}
	return strip(u), nil
}

func strip(u *url.URL) string {
	clean := *u
	clean.RawQuery = strings.Join(filterQuery(u.RawQuery, isTrackingKey), "&")
	clean.ForceQuery = false
	return clean.String()
}

func isTrackingKey(key string) bool {
	return strings.HasPrefix(strings.ToLower(key), keyPrefix)
}
