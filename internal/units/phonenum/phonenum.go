// internal/units/phonenum/phonenum.go

// Package phonenum implementa la unit builtin de análisis de números de
// teléfono sobre libphonenumber: validez, región, operador y formatos.
package phonenum

import (
	"context"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/logx"
)

const unitName = "phonenum"

// Unit analiza números de teléfono sin tocar la red.
type Unit struct {
	logger        logx.Logger
	defaultRegion string
}

// New crea la unit. defaultRegion se usa para números sin prefijo
// internacional ("US" si no se configura).
func New(logger logx.Logger, cfg ports.UnitConfig) *Unit {
	region := "US"
	if cfg.Custom != nil && cfg.Custom["default_region"] != "" {
		region = strings.ToUpper(cfg.Custom["default_region"])
	}
	return &Unit{
		logger:        logger.With("unit", unitName),
		defaultRegion: region,
	}
}

// Name implementa ports.Unit.
func (u *Unit) Name() string { return unitName }

// Type implementa ports.Unit.
func (u *Unit) Type() domain.UnitType { return domain.UnitTypeBuiltin }

// Kinds implementa ports.Unit.
func (u *Unit) Kinds() []domain.SearchKind {
	return []domain.SearchKind{domain.KindPhone}
}

// SupportsKind implementa ports.Unit.
func (u *Unit) SupportsKind(kind domain.SearchKind) bool {
	return kind == domain.KindPhone
}

// Close implementa ports.Unit.
func (u *Unit) Close() error { return nil }

// Run analiza el número. Un número parseable pero inválido es un resultado
// con datos (valid=false); uno imparseable es un fallo de la unit.
func (u *Unit) Run(ctx context.Context, query string, kind domain.SearchKind) (*domain.ResultRecord, error) {
	started := time.Now()

	num, err := phonenumbers.Parse(strings.TrimSpace(query), u.defaultRegion)
	if err != nil {
		return domain.NewFailureRecord(unitName, kind, query,
			"cannot parse phone number: "+err.Error(), started, time.Now()), nil
	}

	valid := phonenumbers.IsValidNumber(num)
	fields := map[string]domain.Value{
		"valid":        domain.BoolValue(valid),
		"country_code": domain.IntValue(int(num.GetCountryCode())),
		"region":       domain.StringValue(phonenumbers.GetRegionCodeForNumber(num)),
		"number_type":  domain.StringValue(numberTypeName(phonenumbers.GetNumberType(num))),
		"phones":       domain.StringListValue([]string{phonenumbers.Format(num, phonenumbers.E164)}),
		"e164":         domain.StringValue(phonenumbers.Format(num, phonenumbers.E164)),
		"intl":         domain.StringValue(phonenumbers.Format(num, phonenumbers.INTERNATIONAL)),
		"national":     domain.StringValue(phonenumbers.Format(num, phonenumbers.NATIONAL)),
	}

	if carrier, err := phonenumbers.GetCarrierForNumber(num, "en"); err == nil && carrier != "" {
		fields["carrier"] = domain.StringValue(carrier)
	}
	if tzs, err := phonenumbers.GetTimezonesForNumber(num); err == nil && len(tzs) > 0 {
		fields["timezones"] = domain.StringListValue(tzs)
	}

	return domain.NewResultRecord(unitName, kind, query, domain.MapValue(fields), started, time.Now()), nil
}

func numberTypeName(t phonenumbers.PhoneNumberType) string {
	switch t {
	case phonenumbers.FIXED_LINE:
		return "fixed_line"
	case phonenumbers.MOBILE:
		return "mobile"
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return "fixed_line_or_mobile"
	case phonenumbers.TOLL_FREE:
		return "toll_free"
	case phonenumbers.PREMIUM_RATE:
		return "premium_rate"
	case phonenumbers.SHARED_COST:
		return "shared_cost"
	case phonenumbers.VOIP:
		return "voip"
	case phonenumbers.PERSONAL_NUMBER:
		return "personal"
	case phonenumbers.PAGER:
		return "pager"
	case phonenumbers.UAN:
		return "uan"
	case phonenumbers.VOICEMAIL:
		return "voicemail"
	default:
		return "unknown"
	}
}
