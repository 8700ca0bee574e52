package handler

import (
	"fmt"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetAuthSubject extracts the authenticated subject from the Gin context
func GetAuthSubject(c *gin.Context) string {
	return c.GetString("auth_subject")
}

// GetAuthRole extracts the authenticated role from the Gin context
func GetAuthRole(c *gin.Context) string {
	return c.GetString("auth_role")
}

// ProxyTrust decides whether a peer may set X-Forwarded-* headers.
// The zero value trusts nobody.
type ProxyTrust struct {
	prefixes []netip.Prefix
}

// NewProxyTrust parses IPs and CIDRs, the same notation gin's
// SetTrustedProxies accepts.
func NewProxyTrust(proxies []string) (*ProxyTrust, error) {
	t := &ProxyTrust{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			addr, err := netip.ParseAddr(p)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
			}
			t.prefixes = append(t.prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		t.prefixes = append(t.prefixes, prefix.Masked())
	}
	return t, nil
}

// Trusted reports whether ip belongs to a trusted proxy.
func (t *ProxyTrust) Trusted(ip string) bool {
	if t == nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// BaseURL resolves the absolute origin documents reference assets from. A
// configured public URL wins. Forwarded headers are used only when the peer is
// a trusted proxy, and then only if they hold a bare host and an http(s)
// scheme. Otherwise the request's own host is used; an invalid host yields "".
func BaseURL(c *gin.Context, publicURL string, proxies *ProxyTrust) string {
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/")
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	host := c.Request.Host

	if proxies.Trusted(c.RemoteIP()) {
		if fh := firstHeaderValue(c.GetHeader("X-Forwarded-Host")); fh != "" && validHost(fh) {
			host = fh
		}
		switch proto := strings.ToLower(firstHeaderValue(c.GetHeader("X-Forwarded-Proto"))); proto {
		case "http", "https":
			scheme = proto
		}
	}

	if !validHost(host) {
		return ""
	}
	return scheme + "://" + host
}

// validHost accepts host or host:port and nothing else: no userinfo, path,
// query or fragment, and a port in 1..65535.
func validHost(host string) bool {
	if host == "" || strings.ContainsAny(host, "/\\?#@ \t%") {
		return false
	}
	u, err := url.Parse("//" + host)
	if err != nil || u.Host != host || u.User != nil || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	if u.Hostname() == "" {
		return false
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return false
		}
	} else if strings.HasSuffix(host, ":") {
		return false
	}
	return true
}

// firstHeaderValue returns the first entry of a comma separated proxy header.
func firstHeaderValue(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
