// internal/units/webpage/webpage.go

// Package webpage implementa la unit de análisis de páginas web: descarga
// la URL y extrae título, metadatos, enlaces y emails del HTML.
package webpage

import (
	"bytes"
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/net/html"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/httpclient"
	"kirwada/internal/platform/logx"
)

const (
	unitName = "webpage"

	// maxLinks acota los enlaces reportados por página.
	maxLinks = 100
)

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// Unit descarga y analiza una página web.
type Unit struct {
	logger logx.Logger
	client *httpclient.Client
}

// New crea la unit.
func New(logger logx.Logger, cfg ports.UnitConfig) *Unit {
	return &Unit{
		logger: logger.With("unit", unitName),
		client: httpclient.New(httpclient.Config{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
		}, logger),
	}
}

// Name implementa ports.Unit.
func (u *Unit) Name() string { return unitName }

// Type implementa ports.Unit.
func (u *Unit) Type() domain.UnitType { return domain.UnitTypeAPI }

// Kinds implementa ports.Unit.
func (u *Unit) Kinds() []domain.SearchKind {
	return []domain.SearchKind{domain.KindURL}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindURL
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return nil }

// Run descarga la página y estructura su contenido. Errores de red o un
// status no-2xx son fallos de la unit.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()
	target := strings.TrimSpace(query)

	body, err := u.client.FetchBytes(ctx, target, nil)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return domain.NewFailureRecord(unitName, kind, query, err.Error(), started, time.Now()), nil
	}

	payload := ParsePage(target, body)
	return domain.NewResultRecord(unitName, kind, query, payload, started, time.Now()), nil
}

// ParsePage extrae título, metadatos, enlaces absolutos y emails del HTML.
func ParsePage(pageURL string, body []byte) domain.Value {
	base, _ := url.Parse(pageURL)

	fields := map[string]domain.Value{
		"urls": domain.StringListValue([]string{pageURL}),
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err == nil {
		var title, description string
		linkSet := make(map[string]struct{})

		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.ElementNode {
				switch n.Data {
				case "title":
					if title == "" && n.FirstChild != nil {
						title = strings.TrimSpace(n.FirstChild.Data)
					}
				case "meta":
					name, content := attr(n, "name"), attr(n, "content")
					if strings.EqualFold(name, "description") && content != "" {
						description = content
					}
				case "a":
					if href := attr(n, "href"); href != "" {
						if abs := resolveLink(base, href); abs != "" {
							linkSet[abs] = struct{}{}
						}
					}
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(doc)

		if title != "" {
			fields["title"] = domain.StringValue(title)
		}
		if description != "" {
			fields["description"] = domain.StringValue(description)
		}
		if len(linkSet) > 0 {
			links := make([]string, 0, len(linkSet))
			for l := range linkSet {
				links = append(links, l)
			}
			sort.Strings(links)
			if len(links) > maxLinks {
				links = links[:maxLinks]
			}
			fields["links"] = domain.StringListValue(links)
		}
	}

	if emails := extractEmails(body); len(emails) > 0 {
		fields["emails"] = domain.StringListValue(emails)
	}

	return domain.MapValue(fields)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// resolveLink absolutiza un href contra la URL base; descarta anclas,
// javascript: y mailto:.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	ref.Fragment = ""
	return ref.String()
}

func extractEmails(body []byte) []string {
	set := make(map[string]struct{})
	for _, m := range emailRegex.FindAll(body, -1) {
		set[strings.ToLower(string(m))] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
