// Package portrait turns raw headshot references into displayable image URLs.
package portrait

import "strings"

// Defaults used when a Resolver field is left empty.
const (
	DefaultHost        = "static.www.nfl.com"
	DefaultToken       = "{formatInstructions}"
	DefaultFormat      = "t_headshot_desktop"
	DefaultPlaceholder = "/static/no_player.png"
)

// Resolver rewrites references from a trusted image host and falls back to a
// placeholder for anything else.
type Resolver struct {
	Host        string
	Token       string
	Format      string
	Placeholder string
}

// Default returns a resolver with the stock host, token and placeholder.
func Default() Resolver {
	return Resolver{
		Host:        DefaultHost,
		Token:       DefaultToken,
		Format:      DefaultFormat,
		Placeholder: DefaultPlaceholder,
	}
}

// Resolve returns the URL to display for raw.
func (r Resolver) Resolve(raw string) string {
	raw = strings.TrimSpace(raw)
	host := r.Host
	if host == "" {
		host = DefaultHost
	}
	if raw == "" || !strings.Contains(raw, host) {
		return r.placeholder()
	}
	token := r.Token
	if token == "" {
		token = DefaultToken
	}
	format := r.Format
	if format == "" {
		format = DefaultFormat
	}
	return strings.ReplaceAll(raw, token, format)
}

func (r Resolver) placeholder() string {
	if r.Placeholder == "" {
		return DefaultPlaceholder
	}
	return r.Placeholder
}
