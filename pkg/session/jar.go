package session

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Cookie is the persisted form of an http.Cookie.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain,omitempty"`
	Path     string    `json:"path"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

func (c *Cookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

func (c *Cookie) matches(u *url.URL, now time.Time) bool {
	if c.expired(now) {
		return false
	}
	if c.Secure && u.Scheme != "https" {
		return false
	}
	return pathMatch(requestPath(u), c.Path)
}

// Jar is an http.CookieJar backed by the session file. Cookies are grouped by
// request host; domain attributes widen a cookie to subdomains of that host.
type Jar struct {
	store *Store
}

var _ http.CookieJar = (*Jar)(nil)

// Jar returns the cookie jar view of the session.
func (s *Store) Jar() *Jar {
	return &Jar{store: s}
}

// SetCookies implements http.CookieJar. Expired or negative max-age cookies
// delete stored entries with the same name and path. Cookies whose domain
// attribute the sending host may not claim are dropped.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	s := j.store
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	host := strings.ToLower(u.Hostname())
	stored := s.doc.Cookies[host]
	for _, hc := range cookies {
		domain, ok := cookieDomain(host, hc.Domain)
		if !ok {
			continue
		}
		c := Cookie{
			Name:     hc.Name,
			Value:    hc.Value,
			Domain:   domain,
			Path:     hc.Path,
			Secure:   hc.Secure,
			HttpOnly: hc.HttpOnly,
		}
		if c.Path == "" || c.Path[0] != '/' {
			c.Path = defaultPath(requestPath(u))
		}
		switch {
		case hc.MaxAge < 0:
			c.Expires = now.Add(-time.Second)
		case hc.MaxAge > 0:
			c.Expires = now.Add(time.Duration(hc.MaxAge) * time.Second)
		case !hc.Expires.IsZero():
			c.Expires = hc.Expires
		}
		stored = upsert(stored, c, now)
	}
	if len(stored) == 0 {
		delete(s.doc.Cookies, host)
	} else {
		s.doc.Cookies[host] = stored
	}
	// CookieJar has no error channel; a failed flush keeps the in-memory copy.
	_ = s.flushLocked()
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	s := j.store
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	host := strings.ToLower(u.Hostname())
	var out []*http.Cookie
	for stored, cookies := range s.doc.Cookies {
		for i := range cookies {
			c := &cookies[i]
			if stored != host && (c.Domain == "" || !domainMatch(host, c.Domain)) {
				continue
			}
			if !c.matches(u, now) {
				continue
			}
			out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return out
}

// Len returns the number of live cookies across all hosts.
func (j *Jar) Len() int {
	s := j.store
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for _, cookies := range s.doc.Cookies {
		for i := range cookies {
			if !cookies[i].expired(now) {
				n++
			}
		}
	}
	return n
}

func upsert(cookies []Cookie, c Cookie, now time.Time) []Cookie {
	out := cookies[:0:0]
	for _, existing := range cookies {
		if existing.Name == c.Name && existing.Path == c.Path {
			continue
		}
		if existing.expired(now) {
			continue
		}
		out = append(out, existing)
	}
	if !c.expired(now) {
		out = append(out, c)
	}
	return out
}

func requestPath(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

func defaultPath(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}
	return p[:i]
}

func pathMatch(requestPath, cookiePath string) bool {
	if requestPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(requestPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || requestPath[len(cookiePath)] == '/'
}

func domainMatch(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// cookieDomain returns the domain a cookie sent by host is stored under, or
// false when host may not set it. An empty result means host-only. Public
// suffixes are only accepted from the suffix host itself, as host-only.
func cookieDomain(host, attr string) (string, bool) {
	domain := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(attr)), ".")
	if domain == "" {
		return "", true
	}
	if domain == host {
		if suffix, _ := publicsuffix.PublicSuffix(domain); suffix == domain {
			return "", true
		}
		return domain, true
	}
	if net.ParseIP(host) != nil {
		return "", false
	}
	if suffix, _ := publicsuffix.PublicSuffix(domain); suffix == domain {
		return "", false
	}
	return domain, domainMatch(host, domain)
}

