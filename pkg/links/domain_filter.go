package links

import (
	"net"
	"net/url"
	"strings"

	"github.com/gobwas/glob"

	"github.com/SkillDoAI/skilldo/pkg/logger"
)

// DomainFilter restricts link checking to an allowlist of domains. Patterns
// may be exact hostnames or globs like "*.readthedocs.io". An empty filter
// allows everything; localhost is always allowed.
type DomainFilter struct {
	domains      map[string]bool
	globPatterns []glob.Glob
}

// NewDomainFilter compiles the given domain patterns. Patterns that fail to
// compile are dropped with a log entry rather than failing the whole filter.
func NewDomainFilter(patterns []string) *DomainFilter {
	df := &DomainFilter{
		domains: make(map[string]bool),
	}

	for _, pattern := range patterns {
		hostname := normalizeHost(pattern)
		if hostname == "" {
			continue
		}
		if strings.ContainsAny(hostname, "*?") {
			compiled, err := glob.Compile(hostname)
			if err != nil {
				logger.L.WithError(err).WithField("pattern", hostname).Warn("dropping invalid domain pattern")
				continue
			}
			df.globPatterns = append(df.globPatterns, compiled)
			continue
		}
		df.domains[hostname] = true
	}

	return df
}

// IsAllowed reports whether the URL's host passes the filter.
func (df *DomainFilter) IsAllowed(urlStr string) bool {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}

	domain := strings.ToLower(parsed.Hostname())

	if isLocalHost(domain) {
		return true
	}

	if len(df.domains) == 0 && len(df.globPatterns) == 0 {
		return true
	}

	if df.domains[domain] {
		return true
	}

	for _, pattern := range df.globPatterns {
		if pattern.Match(domain) {
			return true
		}
	}

	return false
}

// normalizeHost reduces a pattern like "https://docs.python.org/3/" to its
// hostname.
func normalizeHost(pattern string) string {
	p := strings.ToLower(strings.TrimSpace(pattern))
	if p == "" || strings.HasPrefix(p, "#") {
		return ""
	}

	if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
		p = "https://" + p
	}

	if parsed, err := url.Parse(p); err == nil && parsed.Hostname() != "" {
		return parsed.Hostname()
	}

	p = strings.TrimPrefix(p, "https://")
	p = strings.TrimPrefix(p, "http://")
	if idx := strings.Index(p, "/"); idx != -1 {
		p = p[:idx]
	}
	return p
}

func isLocalHost(hostname string) bool {
	switch hostname {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}

	if strings.HasPrefix(hostname, "127.") {
		return true
	}

	if ip := net.ParseIP(hostname); ip != nil {
		return ip.IsLoopback()
	}

	return false
}
