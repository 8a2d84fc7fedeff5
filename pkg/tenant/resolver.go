package tenant

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// DefaultHeader carries the account id or slug on API requests.
const DefaultHeader = "X-Account-ID"

// Resolver extracts an account identifier from a request. An empty result
// without error means the request names no account.
type Resolver interface {
	Resolve(r *http.Request) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) (string, error)

func (f ResolverFunc) Resolve(r *http.Request) (string, error) {
	return f(r)
}

// HeaderResolver reads the identifier from a request header.
type HeaderResolver struct {
	HeaderName string
}

// NewHeaderResolver returns a resolver for headerName, DefaultHeader when empty.
func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = DefaultHeader
	}
	return &HeaderResolver{HeaderName: headerName}
}

func (r *HeaderResolver) Resolve(req *http.Request) (string, error) {
	return strings.TrimSpace(req.Header.Get(r.HeaderName)), nil
}

// SubdomainResolver takes the account slug from the left-most label of the
// host, e.g. "acme" in "acme.utmcrafter.app".
type SubdomainResolver struct {
	// Suffix is the base domain including the leading dot. When empty, hosts
	// with at least three labels yield their first label.
	Suffix string
}

func NewSubdomainResolver(suffix string) *SubdomainResolver {
	return &SubdomainResolver{Suffix: strings.ToLower(suffix)}
}

func (r *SubdomainResolver) Resolve(req *http.Request) (string, error) {
	host := strings.ToLower(req.Host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "www.")

	if r.Suffix != "" {
		rest, ok := strings.CutSuffix(host, r.Suffix)
		if !ok || rest == "" {
			return "", nil
		}
		host = rest
	} else if strings.Count(host, ".") < 2 {
		return "", nil
	}

	sub, _, _ := strings.Cut(host, ".")
	if sub == "" || sub == "www" {
		return "", nil
	}
	return sub, nil
}

// CompositeResolver returns the first non-empty identifier of its resolvers.
type CompositeResolver struct {
	Resolvers []Resolver
}

func NewCompositeResolver(resolvers ...Resolver) *CompositeResolver {
	return &CompositeResolver{Resolvers: resolvers}
}

func (c *CompositeResolver) Resolve(r *http.Request) (string, error) {
	var errs []error
	for _, resolver := range c.Resolvers {
		id, err := resolver.Resolve(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if id != "" {
			return id, nil
		}
	}
	if len(errs) > 0 {
		return "", fmt.Errorf("composite resolver: %w", errors.Join(errs...))
	}
	return "", nil
}
