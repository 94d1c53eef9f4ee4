// internal/units/namehunt/namehunt.go

// Package namehunt implementa la unit API de presencia de usernames:
// sondea páginas de perfil en plataformas conocidas y reporta las que
// existen.
package namehunt

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/httpclient"
	"kirwada/internal/platform/logx"
)

const (
	unitName = "namehunt"

	// probeConcurrency acota las sondas simultáneas dentro de la unit.
	probeConcurrency = 8
)

// Site describe una plataforma sondeable. URLTemplate contiene "{}" donde
// va el username. NotFoundMarker, si no está vacío, marca como ausente un
// perfil aunque el sitio responda 200 (sitios que no devuelven 404).
type Site struct {
	Name           string
	URLTemplate    string
	NotFoundMarker string
}

// defaultSites son las plataformas sondeadas por defecto.
var defaultSites = []Site{
	{Name: "github", URLTemplate: "https://github.com/{}"},
	{Name: "gitlab", URLTemplate: "https://gitlab.com/{}"},
	{Name: "reddit", URLTemplate: "https://www.reddit.com/user/{}/about.json", NotFoundMarker: `"message": "Not Found"`},
	{Name: "twitch", URLTemplate: "https://www.twitch.tv/{}", NotFoundMarker: "Sorry. Unless you"},
	{Name: "instagram", URLTemplate: "https://www.instagram.com/{}/"},
	{Name: "pinterest", URLTemplate: "https://www.pinterest.com/{}/"},
	{Name: "soundcloud", URLTemplate: "https://soundcloud.com/{}"},
	{Name: "spotify", URLTemplate: "https://open.spotify.com/user/{}"},
	{Name: "telegram", URLTemplate: "https://t.me/{}", NotFoundMarker: "<title>Telegram: Contact"},
	{Name: "keybase", URLTemplate: "https://keybase.io/{}"},
	{Name: "hackernews", URLTemplate: "https://news.ycombinator.com/user?id={}", NotFoundMarker: "No such user."},
	{Name: "devto", URLTemplate: "https://dev.to/{}"},
	{Name: "medium", URLTemplate: "https://medium.com/@{}"},
	{Name: "dockerhub", URLTemplate: "https://hub.docker.com/u/{}"},
}

// Unit sondea la existencia de un username en varias plataformas.
type Unit struct {
	logger logx.Logger
	client *httpclient.Client
	sites  []Site
}

// New crea la unit con la lista de sitios por defecto, filtrada por
// Custom["sites"] (nombres separados por coma) si está presente.
func New(logger logx.Logger, cfg ports.UnitConfig) *Unit {
	sites := defaultSites
	if cfg.Custom != nil && cfg.Custom["sites"] != "" {
		wanted := make(map[string]struct{})
		for _, s := range strings.Split(cfg.Custom["sites"], ",") {
			wanted[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
		}
		filtered := make([]Site, 0, len(wanted))
		for _, s := range defaultSites {
			if _, ok := wanted[s.Name]; ok {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) > 0 {
			sites = filtered
		}
	}
	return NewWithSites(logger, cfg, sites)
}

// NewWithSites crea la unit con una lista de sitios explícita.
func NewWithSites(logger logx.Logger, cfg ports.UnitConfig, sites []Site) *Unit {
	return &Unit{
		logger: logger.With("unit", unitName),
		client: httpclient.New(httpclient.Config{
			Timeout:    cfg.Timeout,
			RateLimit:  cfg.RateLimit,
			MaxRetries: 0,
		}, logger),
		sites: sites,
	}
}

// Name implementa ports.Unit.
func (u *Unit) Name() string { return unitName }

// Type implementa ports.Unit.
func (u *Unit) Type() domain.UnitType { return domain.UnitTypeAPI }

// Kinds implementa ports.Unit.
func (u *Unit) Kinds() []domain.SearchKind {
	return []domain.SearchKind{domain.KindUsername}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindUsername
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return nil }

type probeResult struct {
	site  string
	url   string
	found bool
}

// Run sondea todas las plataformas con concurrencia acotada. No encontrar
// el username en ninguna es un resultado exitoso sin cuentas.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()
	username := strings.TrimSpace(query)

	results := make([]probeResult, len(u.sites))
	sem := make(chan struct{}, probeConcurrency)
	var wg sync.WaitGroup

	for i, site := range u.sites {
		wg.Add(1)
		go func(i int, site Site) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			url := strings.ReplaceAll(site.URLTemplate, "{}", username)
			results[i] = probeResult{site: site.Name, url: url, found: u.probe(ctx, site, url)}
		}(i, site)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts := make([]domain.Value, 0)
	urls := make([]string, 0)
	checked := 0
	for _, r := range results {
		if r.site == "" {
			continue
		}
		checked++
		if !r.found {
			continue
		}
		accounts = append(accounts, domain.MapValue(map[string]domain.Value{
			"site": domain.StringValue(r.site),
			"urls": domain.StringListValue([]string{r.url}),
		}))
		urls = append(urls, r.url)
	}
	sort.Strings(urls)

	payload := domain.MapValue(map[string]domain.Value{
		"usernames":     domain.StringListValue([]string{username}),
		"sites_checked": domain.IntValue(checked),
		"hits":          domain.IntValue(len(accounts)),
		"accounts":      domain.ListValue(accounts),
		"urls":          domain.StringListValue(urls),
	})
	return domain.NewResultRecord(unitName, kind, query, payload, started, time.Now()), nil
}

// probe decide presencia: status 2xx sin el marcador de ausencia.
func (u *Unit) probe(ctx context.Context, site Site, url string) bool {
	resp, err := u.client.Get(ctx, url, nil)
	if err != nil {
		return false
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return false
	}

	if site.NotFoundMarker == "" {
		resp.Body.Close()
		return true
	}

	body, err := httpclient.ReadBody(resp)
	if err != nil {
		return false
	}
	return !strings.Contains(string(body), site.NotFoundMarker)
}
