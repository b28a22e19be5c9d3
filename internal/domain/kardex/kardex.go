// Package kardex reconstruye el libro de inventario permanente a costo
// promedio ponderado. Es un servicio de dominio puro: recibe la proyección
// cronológica de movimientos de un producto y devuelve el saldo corrido
// valorizado, sin efectos secundarios ni acceso a datos.
package kardex

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Movement entrada del algoritmo: un movimiento de inventario de un producto.
// Direction "in" para recepciones, "out" para entregas. UnitCost solo se usa
// en entradas; las salidas se valorizan al promedio vigente, no al costo
// registrado en la línea (política de promedio móvil intencional).
type Movement struct {
	Reference int64 // consecutivo numérico, desempate dentro de la misma fecha
	Date      time.Time
	Direction string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Source    string
	SourceID  string
}

// Row una fila del Kardex: el movimiento con su valorización y el saldo corrido.
type Row struct {
	Reference    int64
	Date         time.Time
	Source       string
	SourceID     string
	InQty        decimal.Decimal
	InUnitCost   decimal.Decimal
	InValue      decimal.Decimal
	OutQty       decimal.Decimal
	OutUnitCost  decimal.Decimal // promedio vigente al momento de la salida
	OutValue     decimal.Decimal
	BalanceQty   decimal.Decimal
	AverageCost  decimal.Decimal
	BalanceValue decimal.Decimal
}

// Result filas del Kardex más los totales agregados del período.
type Result struct {
	Rows         []Row
	TotalIn      decimal.Decimal
	TotalOut     decimal.Decimal
	FinalQty     decimal.Decimal
	FinalValue   decimal.Decimal
	FinalAverage decimal.Decimal
}

// Reconstruct recorre los movimientos en orden cronológico (empates por
// referencia numérica ascendente) y calcula el saldo corrido:
//
//	entrada: valor = cantidad * costo línea; recalcula el promedio ponderado
//	salida:  valor = cantidad * promedio vigente
//
// Saldos negativos se reportan en cero: son una señal de calidad de datos,
// no un estado válido del libro. El promedio se reinicia cuando el saldo
// llega a cero o menos.
func Reconstruct(movements []Movement) Result {
	sorted := make([]Movement, len(movements))
	copy(sorted, movements)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].Reference < sorted[j].Reference
	})

	balanceQty := decimal.Zero
	balanceValue := decimal.Zero
	avgCost := decimal.Zero

	res := Result{
		Rows:     make([]Row, 0, len(sorted)),
		TotalIn:  decimal.Zero,
		TotalOut: decimal.Zero,
	}

	for _, m := range sorted {
		row := Row{
			Reference: m.Reference,
			Date:      m.Date,
			Source:    m.Source,
			SourceID:  m.SourceID,
		}

		inQty, outQty := decimal.Zero, decimal.Zero
		inValue, outValue := decimal.Zero, decimal.Zero

		switch m.Direction {
		case DirectionIn:
			inQty = m.Quantity
			inValue = inQty.Mul(m.UnitCost)
			row.InQty = inQty
			row.InUnitCost = m.UnitCost
			row.InValue = inValue
		case DirectionOut:
			outQty = m.Quantity
			outValue = outQty.Mul(avgCost)
			row.OutQty = outQty
			row.OutUnitCost = avgCost
			row.OutValue = outValue
		default:
			// Dirección desconocida: fila sin efecto sobre el saldo.
		}

		newQty := balanceQty.Add(inQty).Sub(outQty)
		newValue := balanceValue.Add(inValue).Sub(outValue)

		if inQty.GreaterThan(decimal.Zero) {
			divisor := balanceQty.Add(inQty)
			if divisor.GreaterThan(decimal.Zero) {
				avgCost = balanceValue.Add(inValue).Div(divisor)
			}
		}
		if newQty.LessThanOrEqual(decimal.Zero) {
			avgCost = decimal.Zero
		}

		// Clamp documentado: el saldo reportado nunca es negativo.
		if newQty.LessThan(decimal.Zero) {
			newQty = decimal.Zero
		}
		if newValue.LessThan(decimal.Zero) {
			newValue = decimal.Zero
		}

		balanceQty = newQty
		balanceValue = newValue

		row.BalanceQty = balanceQty
		row.AverageCost = avgCost
		row.BalanceValue = balanceValue
		res.Rows = append(res.Rows, row)

		res.TotalIn = res.TotalIn.Add(inQty)
		res.TotalOut = res.TotalOut.Add(outQty)
	}

	res.FinalQty = balanceQty
	res.FinalValue = balanceValue
	res.FinalAverage = avgCost
	return res
}

// Direcciones aceptadas por el algoritmo.
const (
	DirectionIn  = "in"
	DirectionOut = "out"
)
