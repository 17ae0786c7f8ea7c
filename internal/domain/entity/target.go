package entity

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// TargetContext is one open tab. Contexts are listed fresh for every
// envelope and never cached.
type TargetContext struct {
	ID     string `json:"id"`
	Index  int    `json:"index"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

type ContextFilter struct {
	// URLPattern is a match pattern such as "*://example.com/*" or "<all_urls>".
	URLPattern string
	ActiveOnly bool
}

// Apply keeps the contexts accepted by the filter, preserving order.
func (f ContextFilter) Apply(contexts []TargetContext) ([]TargetContext, error) {
	var pattern *URLPattern
	if f.URLPattern != "" {
		p, err := CompileURLPattern(f.URLPattern)
		if err != nil {
			return nil, err
		}
		pattern = p
	}

	out := make([]TargetContext, 0, len(contexts))
	for _, c := range contexts {
		if f.ActiveOnly && !c.Active {
			continue
		}
		if pattern != nil && !pattern.Match(c.URL) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// URLPattern matches URLs against browser-extension style match patterns:
// <scheme>://<host><path>, where scheme may be "*" (http or https), host may
// start with "*." (the domain and its subdomains) and "*" in the path matches
// anything. "*" is the only wildcard; every other character is literal. A
// host without a port matches any port. "<all_urls>" matches every URL.
type URLPattern struct {
	raw string
	all bool
	// anyPort strips the port from candidate URLs before matching.
	anyPort bool
	globs   []glob.Glob
}

func CompileURLPattern(pattern string) (*URLPattern, error) {
	pattern = strings.TrimSpace(pattern)
	p := &URLPattern{raw: pattern}
	if pattern == "<all_urls>" || pattern == "*" {
		p.all = true
		return p, nil
	}

	scheme, rest, ok := strings.Cut(pattern, "://")
	if !ok {
		// Plain wildcard over the whole URL.
		if err := p.add(pattern); err != nil {
			return nil, err
		}
		return p, nil
	}

	host, path := rest, "/*"
	if i := strings.Index(rest, "/"); i >= 0 {
		host, path = rest[:i], rest[i:]
	}
	p.anyPort = !hasPort(host)

	schemes := []string{scheme}
	if scheme == "*" {
		schemes = []string{"http", "https"}
	}
	hosts := []string{host}
	if strings.HasPrefix(host, "*.") {
		hosts = []string{host, strings.TrimPrefix(host, "*.")}
	}

	for _, s := range schemes {
		for _, h := range hosts {
			if err := p.add(s + "://" + h + path); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}

// add compiles expr with "*" as the only metacharacter.
func (p *URLPattern) add(expr string) error {
	parts := strings.Split(expr, "*")
	for i, part := range parts {
		parts[i] = glob.QuoteMeta(part)
	}
	g, err := glob.Compile(strings.Join(parts, "*"))
	if err != nil {
		return fmt.Errorf("invalid tab_url pattern %q: %w", p.raw, err)
	}
	p.globs = append(p.globs, g)
	return nil
}

func (p *URLPattern) Match(rawURL string) bool {
	if p.all {
		return true
	}
	rawURL = normalizeURL(rawURL, p.anyPort)
	for _, g := range p.globs {
		if g.Match(rawURL) {
			return true
		}
	}
	return false
}

func (p *URLPattern) String() string {
	return p.raw
}

func hasPort(host string) bool {
	return strings.LastIndex(host, ":") > strings.LastIndex(host, "]")
}

// normalizeURL drops the fragment and gives bare origins a "/" path, as
// match patterns never see either. With stripPort the port is removed too.
// The rest of the URL is kept byte for byte.
func normalizeURL(raw string, stripPort bool) string {
	raw, _, _ = strings.Cut(raw, "#")
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}

	host, path := rest, "/"
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		host, path = rest[:i], rest[i:]
		if path[0] == '?' {
			path = "/" + path
		}
	}
	if stripPort {
		userinfo, hostport := "", host
		if at := strings.LastIndex(host, "@"); at >= 0 {
			userinfo, hostport = host[:at+1], host[at+1:]
		}
		if hasPort(hostport) {
			hostport = hostport[:strings.LastIndex(hostport, ":")]
		}
		host = userinfo + hostport
	}
	return scheme + "://" + host + path
}
