// internal/units/ipinfo/ipinfo.go

// Package ipinfo implementa la unit API de geolocalización de IPs sobre
// el endpoint público de ip-api.com. No requiere credencial.
package ipinfo

import (
	"context"
	"net/url"
	"strings"
	"time"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/httpclient"
	"kirwada/internal/platform/logx"
)

const (
	unitName       = "ipinfo"
	defaultBaseURL = "http://ip-api.com/json"

	// queryFields selecciona los campos de la respuesta.
	queryFields = "status,message,country,countryCode,regionName,city,zip,lat,lon,timezone,isp,org,as,reverse,query"
)

type apiResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
	Reverse     string  `json:"reverse"`
	Query       string  `json:"query"`
}

// Unit geolocaliza direcciones IP.
type Unit struct {
	logger  logx.Logger
	client  *httpclient.Client
	baseURL string
}

// New crea la unit.
func New(logger logx.Logger, cfg ports.UnitConfig) *Unit {
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
		baseURL: baseURL,
	}
}

// Name implementa ports.Unit.
func (u *Unit) Name() string { return unitName }

// Type implementa ports.Unit.
func (u *Unit) Type() domain.UnitType { return domain.UnitTypeAPI }

// Kinds implementa ports.Unit.
func (u *Unit) Kinds() []domain.SearchKind {
	return []domain.SearchKind{domain.KindIP}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindIP
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return nil }

// Run geolocaliza la IP. Un status "fail" de la API (IP reservada, rango
// privado) es un fallo de la unit con el mensaje del servicio.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()

	endpoint := u.baseURL + "/" + url.PathEscape(strings.TrimSpace(query)) + "?fields=" + queryFields

	var resp apiResponse
	err := u.client.FetchJSON(ctx, endpoint, nil, &resp)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return domain.NewFailureRecord(unitName, kind, query, err.Error(), started, time.Now()), nil
	}
	if resp.Status != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "lookup failed for " + query
		}
		return domain.NewFailureRecord(unitName, kind, query, msg, started, time.Now()), nil
	}

	fields := map[string]domain.Value{
		"ips":          domain.StringListValue([]string{resp.Query}),
		"country":      domain.StringValue(resp.Country),
		"country_code": domain.StringValue(resp.CountryCode),
		"region":       domain.StringValue(resp.RegionName),
		"city":         domain.StringValue(resp.City),
		"lat":          domain.NumberValue(resp.Lat),
		"lon":          domain.NumberValue(resp.Lon),
		"timezone":     domain.StringValue(resp.Timezone),
		"isp":          domain.StringValue(resp.ISP),
		"org":          domain.StringValue(resp.Org),
		"asn":          domain.StringValue(resp.AS),
	}
	if resp.Zip != "" {
		fields["zip"] = domain.StringValue(resp.Zip)
	}
	if resp.Reverse != "" {
		fields["hostname"] = domain.StringValue(resp.Reverse)
	}

	return domain.NewResultRecord(unitName, kind, query, domain.MapValue(fields), started, time.Now()), nil
}
