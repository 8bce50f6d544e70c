// Package urlutil backs the url module exposed to scripts: an identity
// echo and an absolute-URL parser returning WHATWG-style components.
package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned for input that is not an absolute URL.
var ErrInvalidURL = errors.New("Not a valid URL")

// URL holds the components of a parsed URL, named as in the WHATWG URL API.
type URL struct {
	Href     string            `json:"href"`
	Protocol string            `json:"protocol"`
	Username string            `json:"username"`
	Host     string            `json:"host"`
	Hostname string            `json:"hostname"`
	Port     string            `json:"port"`
	Pathname string            `json:"pathname"`
	Search   string            `json:"search"`
	Hash     string            `json:"hash"`
	Query    map[string]string `json:"query"`
}

// Echo returns s unchanged.
func Echo(s string) string {
	return s
}

// specialSchemes have a "/" path when none is given.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true, "file": true,
}

// Parse parses an absolute URL. Relative references and malformed input
// fail with ErrInvalidURL.
func Parse(raw string) (*URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return nil, ErrInvalidURL
	}
	if u.Opaque == "" && u.Host == "" && specialSchemes[u.Scheme] && u.Scheme != "file" {
		return nil, ErrInvalidURL
	}

	scheme := strings.ToLower(u.Scheme)
	out := &URL{
		Protocol: scheme + ":",
		Host:     strings.ToLower(u.Host),
		Hostname: strings.ToLower(u.Hostname()),
		Port:     u.Port(),
		Pathname: u.EscapedPath(),
		Query:    make(map[string]string),
	}
	if u.Opaque != "" {
		out.Pathname = u.Opaque
	}
	if out.Pathname == "" && specialSchemes[scheme] {
		out.Pathname = "/"
	}
	if defaultPort(scheme) == out.Port {
		out.Port = ""
		out.Host = out.Hostname
	}
	if u.User != nil {
		out.Username = u.User.Username()
	}
	if u.RawQuery != "" {
		out.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		out.Hash = "#" + u.EscapedFragment()
	}
	for k, v := range u.Query() {
		if len(v) > 0 {
			out.Query[k] = v[0]
		}
	}

	normalized := *u
	normalized.Scheme = scheme
	normalized.Host = out.Host
	if normalized.Path == "" && normalized.Opaque == "" && specialSchemes[scheme] {
		normalized.Path = "/"
	}
	out.Href = normalized.String()
	return out, nil
}

func defaultPort(scheme string) string {
	switch scheme {
	case "http", "ws":
		return "80"
	case "https", "wss":
		return "443"
	case "ftp":
		return "21"
	}
	return "-"
}
