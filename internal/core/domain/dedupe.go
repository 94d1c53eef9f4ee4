// internal/core/domain/dedupe.go
package domain

import (
	"sort"
	"strings"
)

// DeduplicatedField es una vista derivada por el aggregator: un valor
// normalizado junto a las units que lo reportaron de forma independiente.
// Sirve para corroboración cruzada sin perder procedencia.
type DeduplicatedField struct {
	// Value el valor normalizado (lowercase, sin espacios circundantes)
	Value string `json:"value"`

	// Fields nombres de campo bajo los que apareció el valor
	Fields []string `json:"fields"`

	// Units nombres de las units que reportaron el valor
	Units []string `json:"units"`
}

// NormalizeFieldValue aplica la normalización de igualdad del aggregator:
// trim de espacios y case-folding. Sin fuzzy matching.
func NormalizeFieldValue(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// AddField añade un nombre de campo sin duplicados.
func (d *DeduplicatedField) AddField(field string) {
	for _, f := range d.Fields {
		if f == field {
			return
		}
	}
	d.Fields = append(d.Fields, field)
	sort.Strings(d.Fields)
}

// AddUnit añade una unit sin duplicados.
func (d *DeduplicatedField) AddUnit(unit string) {
	for _, u := range d.Units {
		if u == unit {
			return
		}
	}
	d.Units = append(d.Units, unit)
	sort.Strings(d.Units)
}

// Corroborated indica si más de una unit reportó el valor.
func (d *DeduplicatedField) Corroborated() bool {
	return len(d.Units) > 1
}
