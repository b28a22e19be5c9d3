// Package stock24 contiene las reglas puras del stock 24h de sala:
// el nivel de alerta se deriva siempre de current/par al leer, nunca se
// almacena, para que no quede obsoleto tras actualizaciones parciales.
package stock24

import "github.com/shopspring/decimal"

// Niveles de alerta del stock 24h.
const (
	AlertCritical = "critical"
	AlertLow      = "low"
	AlertNormal   = "normal"
)

// Thresholds umbrales de alerta compartidos por listados y consultas.
// Son ratios current/par: ratio <= Critical es crítico, <= Low es bajo.
type Thresholds struct {
	Critical decimal.Decimal
	Low      decimal.Decimal
}

// DefaultThresholds valores usados si la configuración no los define.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Critical: decimal.NewFromFloat(0.25),
		Low:      decimal.NewFromFloat(0.5),
	}
}

// AlertLevel deriva el nivel de alerta de una entrada del stock 24h.
// Con par = 0 el ratio se define como 1: sin objetivo no hay alerta.
func AlertLevel(current, par decimal.Decimal, t Thresholds) string {
	ratio := decimal.NewFromInt(1)
	if par.GreaterThan(decimal.Zero) {
		ratio = current.Div(par)
	}
	switch {
	case ratio.LessThanOrEqual(t.Critical):
		return AlertCritical
	case ratio.LessThanOrEqual(t.Low):
		return AlertLow
	default:
		return AlertNormal
	}
}
