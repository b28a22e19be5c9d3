package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CuadreState estado de un cuadre (enum cerrado).
type CuadreState string

const (
	CuadreInProgress CuadreState = "in_progress"
	CuadreCompleted  CuadreState = "completed"
)

// Cuadre es una auditoría puntual del stock 24h: congela las cantidades
// teóricas y recoge un conteo físico por línea. Al finalizar, el conteo
// físico manda: sobrescribe la cantidad del buffer donde haya diferencia.
type Cuadre struct {
	ID          string
	State       CuadreState
	StartedBy   string
	StartedAt   time.Time
	FinalizedAt *time.Time
	Lines       []CuadreLine
}

// CuadreLine una línea de conteo. Physical es nil hasta que se cuenta.
type CuadreLine struct {
	ID          string
	CuadreID    string
	VariantID   string
	Theoretical decimal.Decimal
	Physical    *decimal.Decimal
	Difference  decimal.Decimal // physical - theoretical, válido solo con Physical != nil
}

// Counted indica si la línea ya tiene conteo físico.
func (l *CuadreLine) Counted() bool {
	return l.Physical != nil
}

// PendingCount devuelve cuántas líneas siguen sin conteo físico.
func (c *Cuadre) PendingCount() int {
	n := 0
	for i := range c.Lines {
		if !c.Lines[i].Counted() {
			n++
		}
	}
	return n
}
