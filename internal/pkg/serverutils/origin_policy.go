package serverutils

import "strings"

// OriginPolicy decides whether a web origin may receive credentialed
// cross-origin responses. Policy is origin-string-only: exact match against
// the allow-list, or suffix match against a trusted deployment domain
// (e.g. preview deployments under ".vercel.app").
type OriginPolicy struct {
	allowed       map[string]struct{}
	trustedSuffix string
}

func NewOriginPolicy(allowedOrigins []string, trustedSuffix string) *OriginPolicy {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &OriginPolicy{
		allowed:       allowed,
		trustedSuffix: trustedSuffix,
	}
}

func (p *OriginPolicy) Allowed(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := p.allowed[origin]; ok {
		return true
	}
	if p.trustedSuffix == "" {
		return false
	}
	// Only https deployments of the trusted platform, never a bare suffix match
	// on a lookalike scheme.
	return strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, p.trustedSuffix)
}
