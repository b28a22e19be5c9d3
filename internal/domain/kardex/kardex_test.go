package kardex_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/kardex"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var baseDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func in(ref int64, day int, qty, cost float64) kardex.Movement {
	return kardex.Movement{
		Reference: ref,
		Date:      baseDate.AddDate(0, 0, day),
		Direction: kardex.DirectionIn,
		Quantity:  decimal.NewFromFloat(qty),
		UnitCost:  decimal.NewFromFloat(cost),
	}
}

func out(ref int64, day int, qty float64) kardex.Movement {
	return kardex.Movement{
		Reference: ref,
		Date:      baseDate.AddDate(0, 0, day),
		Direction: kardex.DirectionOut,
		Quantity:  decimal.NewFromFloat(qty),
	}
}

func eq(t *testing.T, expected float64, actual decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.NewFromFloat(expected).Equal(actual),
		"%s: esperado %v, obtenido %s", msg, expected, actual)
}

// ──────────────────────────────────────────────────────────────────────────────
// Promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

// Dos recepciones a costos distintos: el promedio es el ponderado por cantidad,
// no el promedio simple de los costos.
func TestReconstruct_PromedioPonderadoEntreRecepciones(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		in(1, 0, 10, 5.00),
		in(2, 1, 10, 7.00),
	})

	require.Len(t, res.Rows, 2)
	eq(t, 20, res.FinalQty, "existencia final")
	eq(t, 120, res.FinalValue, "valor final")
	eq(t, 6, res.FinalAverage, "promedio ponderado (10@5 + 10@7)")
}

// La salida se valoriza al promedio vigente, no al costo de la última entrada.
func TestReconstruct_SalidaValorizadaAlPromedio(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		in(1, 0, 10, 5.00),
		in(2, 1, 10, 7.00),
		out(3, 2, 5),
	})

	require.Len(t, res.Rows, 3)
	salida := res.Rows[2]
	eq(t, 6, salida.OutUnitCost, "costo unitario de salida")
	eq(t, 30, salida.OutValue, "valor de salida (5 * 6.00)")
	eq(t, 15, res.FinalQty, "existencia final")
	eq(t, 90, res.FinalValue, "valor final")
	eq(t, 6, res.FinalAverage, "el promedio no cambia con salidas")
}

// El promedio solo se recalcula en entradas: varias salidas seguidas conservan
// el mismo costo unitario.
func TestReconstruct_PromedioEstableEntreSalidas(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		in(1, 0, 30, 4.00),
		out(2, 1, 10),
		out(3, 2, 5),
	})

	eq(t, 4, res.Rows[1].OutUnitCost, "primera salida al promedio")
	eq(t, 4, res.Rows[2].OutUnitCost, "segunda salida al mismo promedio")
	eq(t, 15, res.FinalQty, "existencia final")
	eq(t, 60, res.FinalValue, "valor final")
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden cronológico y desempates
// ──────────────────────────────────────────────────────────────────────────────

// Los movimientos se procesan por fecha aunque lleguen desordenados.
func TestReconstruct_OrdenaPorFecha(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		out(2, 5, 4),
		in(1, 0, 10, 2.00),
	})

	require.Len(t, res.Rows, 2)
	assert.Equal(t, int64(1), res.Rows[0].Reference, "la entrada va primero")
	eq(t, 6, res.FinalQty, "existencia final")
}

// Misma fecha: desempata la referencia numérica ascendente.
func TestReconstruct_EmpateDeFechaDesempataPorReferencia(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		out(7, 0, 5),
		in(3, 0, 5, 1.00),
	})

	require.Len(t, res.Rows, 2)
	assert.Equal(t, int64(3), res.Rows[0].Reference)
	assert.Equal(t, int64(7), res.Rows[1].Reference)
	eq(t, 0, res.FinalQty, "la entrada cubre exactamente la salida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Saldos negativos y reinicio del promedio
// ──────────────────────────────────────────────────────────────────────────────

// Una salida mayor al saldo deja el saldo reportado en cero, nunca negativo.
func TestReconstruct_SaldoNuncaNegativo(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		in(1, 0, 5, 10.00),
		out(2, 1, 8),
	})

	require.Len(t, res.Rows, 2)
	eq(t, 0, res.Rows[1].BalanceQty, "saldo recortado a cero")
	eq(t, 0, res.FinalQty, "existencia final")
	eq(t, 0, res.FinalValue, "valor final")
}

// Al agotar la existencia el promedio se reinicia: la siguiente recepción
// define el costo desde cero, sin arrastre del ciclo anterior.
func TestReconstruct_PromedioSeReiniciaAlAgotar(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		in(1, 0, 10, 5.00),
		out(2, 1, 10),
		in(3, 2, 4, 9.00),
	})

	require.Len(t, res.Rows, 3)
	eq(t, 0, res.Rows[1].AverageCost, "promedio en cero tras agotar")
	eq(t, 9, res.Rows[2].AverageCost, "la nueva recepción fija el promedio")
	eq(t, 4, res.FinalQty, "existencia final")
	eq(t, 36, res.FinalValue, "valor final")
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales y casos borde
// ──────────────────────────────────────────────────────────────────────────────

func TestReconstruct_TotalesDelPeriodo(t *testing.T) {
	res := kardex.Reconstruct([]kardex.Movement{
		in(1, 0, 10, 2.00),
		in(2, 1, 6, 2.00),
		out(3, 2, 4),
		out(4, 3, 2),
	})

	eq(t, 16, res.TotalIn, "total de entradas")
	eq(t, 6, res.TotalOut, "total de salidas")
	eq(t, 10, res.FinalQty, "existencia final")
}

func TestReconstruct_SinMovimientos(t *testing.T) {
	res := kardex.Reconstruct(nil)

	assert.Empty(t, res.Rows)
	eq(t, 0, res.TotalIn, "total de entradas")
	eq(t, 0, res.TotalOut, "total de salidas")
	eq(t, 0, res.FinalQty, "existencia final")
	eq(t, 0, res.FinalAverage, "promedio")
}

// No muta el slice de entrada: el orden original se conserva.
func TestReconstruct_NoMutaLaEntrada(t *testing.T) {
	movs := []kardex.Movement{
		out(2, 5, 4),
		in(1, 0, 10, 2.00),
	}
	_ = kardex.Reconstruct(movs)

	assert.Equal(t, int64(2), movs[0].Reference, "el slice original no se reordena")
}
