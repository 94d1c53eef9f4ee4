// internal/units/hibp/hibp.go

// Package hibp implementa la unit API de Have I Been Pwned: brechas
// conocidas para una dirección de email. Requiere credencial.
package hibp

import (
	"context"
	"net/url"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/httpclient"
	"kirwada/internal/platform/logx"
)

const (
	unitName       = "hibp"
	defaultBaseURL = "https://haveibeenpwned.com/api/v3"
	serviceName    = "hibp"
	credentialKey  = "api_key"
)

// breach es el subconjunto relevante de la respuesta de la API v3.
type breach struct {
	Name         string   `json:"Name"`
	Title        string   `json:"Title"`
	Domain       string   `json:"Domain"`
	BreachDate   string   `json:"BreachDate"`
	PwnCount     int      `json:"PwnCount"`
	DataClasses  []string `json:"DataClasses"`
	IsVerified   bool     `json:"IsVerified"`
	IsSensitive  bool     `json:"IsSensitive"`
}

// Unit consulta brechas conocidas para un email.
type Unit struct {
	logger  logx.Logger
	client  *httpclient.Client
	creds   ports.CredentialStore
	baseURL string
}

// New crea la unit. La credencial se resuelve en cada Run, no en arranque,
// para que un store recargado surta efecto sin reconstruir la unit.
func New(logger logx.Logger, cfg ports.UnitConfig, creds ports.CredentialStore) *Unit {
	baseURL := defaultBaseURL
	if cfg.Custom != nil && cfg.Custom["base_url"] != "" {
		baseURL = cfg.Custom["base_url"]
	}

	return &Unit{
		logger: logger.With("unit", unitName),
		client: httpclient.New(httpclient.Config{
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
		}, logger),
		creds:   creds,
		baseURL: baseURL,
	}
}

// Name implementa ports.Unit.
func (u *Unit) Name() string { return unitName }

// Type implementa ports.Unit.
func (u *Unit) Type() domain.UnitType { return domain.UnitTypeAPI }

// Kinds implementa ports.Unit.
func (u *Unit) Kinds() []domain.SearchKind {
	return []domain.SearchKind{domain.KindEmail}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindEmail
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return nil }

// Run consulta la API. Un 404 significa "sin brechas conocidas" y es un
// resultado exitoso; la ausencia de credencial es un fallo de la unit.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()

	apiKey, ok := u.creds.Credential(serviceName, credentialKey)
	if !ok {
		return domain.NewFailureRecord(unitName, kind, query,
			"no API key configured for "+serviceName, started, time.Now()), nil
	}

	endpoint := u.baseURL + "/breachedaccount/" + url.PathEscape(query) + "?truncateResponse=false"
	headers := map[string]string{"hibp-api-key": apiKey}

	var breaches []breach
	err := u.client.FetchJSON(ctx, endpoint, headers, &breaches)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			payload := domain.MapValue(map[string]domain.Value{
				"breached":     domain.BoolValue(false),
				"breach_count": domain.IntValue(0),
			})
			return domain.NewResultRecord(unitName, kind, query, payload, started, time.Now()), nil
		}
		return domain.NewFailureRecord(unitName, kind, query, err.Error(), started, time.Now()), nil
	}

	items := make([]domain.Value, 0, len(breaches))
	for _, b := range breaches {
		items = append(items, domain.MapValue(map[string]domain.Value{
			"name":         domain.StringValue(b.Name),
			"title":        domain.StringValue(b.Title),
			"domain":       domain.StringValue(b.Domain),
			"breach_date":  domain.StringValue(b.BreachDate),
			"pwn_count":    domain.IntValue(b.PwnCount),
			"data_classes": domain.StringListValue(b.DataClasses),
			"verified":     domain.BoolValue(b.IsVerified),
			"sensitive":    domain.BoolValue(b.IsSensitive),
		}))
	}

	payload := domain.MapValue(map[string]domain.Value{
		"breached":     domain.BoolValue(len(items) > 0),
		"breach_count": domain.IntValue(len(items)),
		"breaches":     domain.ListValue(items),
	})
	return domain.NewResultRecord(unitName, kind, query, payload, started, time.Now()), nil
}
