// internal/core/usecases/aggregator.go
package usecases

import (
	"sort"

	"kirwada/internal/core/domain"
	"kirwada/internal/core/ports"
	"kirwada/internal/platform/logx"
)

// recognizedFieldAliases son los nombres de campo considerados "portadores
// de identidad" por convención. Es cross-referencing consultivo, no
// validación de esquema: payloads con otras formas pasan intactos.
// El set es una decisión de implementación documentada, no contrato duro.
var recognizedFieldAliases = map[string]struct{}{
	"email": {}, "emails": {}, "email_address": {}, "email_addresses": {},
	"url": {}, "urls": {}, "link": {}, "links": {},
	"username": {}, "usernames": {}, "account": {}, "accounts": {}, "handle": {}, "handles": {},
	"ip": {}, "ips": {}, "ip_address": {}, "ip_addresses": {}, "address": {}, "addresses": {},
	"domain": {}, "domains": {}, "subdomain": {}, "subdomains": {}, "host": {}, "hosts": {}, "hostname": {},
	"phone": {}, "phones": {}, "phone_number": {}, "phone_numbers": {},
}

// Aggregator deriva vistas sobre una sesión ya despachada: contadores por
// estado y campos deduplicados entre units con procedencia. Es una función
// pura sobre outcomes inmutables; nunca invoca units.
type Aggregator struct {
	logger logx.Logger
}

// NewAggregator crea una nueva instancia del aggregator.
func NewAggregator(logger logx.Logger) *Aggregator {
	if logger == nil {
		logger = logx.New()
	}
	return &Aggregator{
		logger: logger.With("component", "aggregator"),
	}
}

// Aggregate recomputa el summary de la sesión y construye la vista de
// campos deduplicados a partir de los outcomes exitosos. Opera sobre una
// sesión a la vez; fusionar múltiples sesiones es responsabilidad del caller.
func (a *Aggregator) Aggregate(session *domain.SearchSession) *ports.AggregateView {
	view := &ports.AggregateView{
		Summary: session.ComputeSummary(),
		Fields:  make(map[string]*domain.DeduplicatedField),
	}

	for _, outcome := range session.SucceededOutcomes() {
		a.extractFields(outcome.Record.UnitName, "", outcome.Record.Payload, view.Fields)
	}

	a.logger.Debug("aggregated session",
		"session", session.ID,
		"deduplicated_fields", len(view.Fields),
	)

	return view
}

// extractFields recorre el árbol de payload y recoge valores scalar bajo
// claves reconocidas. La clave normalizada del mapa resultante es el valor
// tras lowercase+trim; dos valores son duplicados si y solo si coinciden
// tras esa normalización.
func (a *Aggregator) extractFields(unitName, fieldName string, v domain.Value, fields map[string]*domain.DeduplicatedField) {
	switch v.Kind() {
	case domain.ValueMap:
		// Un mapa abre scope nuevo: solo sus propias claves reconocidas
		// marcan valores, el nombre heredado no atraviesa mapas anidados.
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			name := ""
			if isRecognizedField(key) {
				name = key
			}
			a.extractFields(unitName, name, child, fields)
		}
	case domain.ValueList:
		for _, item := range v.List() {
			a.extractFields(unitName, fieldName, item, fields)
		}
	case domain.ValueString:
		if fieldName == "" {
			return
		}
		a.collect(unitName, fieldName, v.Str(), fields)
	}
}

// collect añade un valor a la vista deduplicada, preservando procedencia.
func (a *Aggregator) collect(unitName, fieldName, raw string, fields map[string]*domain.DeduplicatedField) {
	normalized := domain.NormalizeFieldValue(raw)
	if normalized == "" {
		return
	}

	entry, ok := fields[normalized]
	if !ok {
		entry = &domain.DeduplicatedField{Value: normalized}
		fields[normalized] = entry
	}
	entry.AddField(fieldName)
	entry.AddUnit(unitName)
}

func isRecognizedField(key string) bool {
	_, ok := recognizedFieldAliases[domain.NormalizeFieldValue(key)]
	return ok
}

// SortedFieldValues retorna las claves de la vista en orden estable,
// valores corroborados (más de una unit) primero.
func SortedFieldValues(view *ports.AggregateView) []string {
	keys := make([]string, 0, len(view.Fields))
	for k := range view.Fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci := len(view.Fields[keys[i]].Units)
		cj := len(view.Fields[keys[j]].Units)
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	return keys
}
