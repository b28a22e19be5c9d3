package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Requisiciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRequisitionState_TransicionesValidas(t *testing.T) {
	assert.True(t, entity.RequisitionPending.CanTransition(entity.RequisitionApproved))
	assert.True(t, entity.RequisitionPending.CanTransition(entity.RequisitionRejected))
	assert.True(t, entity.RequisitionPending.CanTransition(entity.RequisitionCancelled))
	assert.True(t, entity.RequisitionApproved.CanTransition(entity.RequisitionDelivered))
}

func TestRequisitionState_TransicionesInvalidas(t *testing.T) {
	// Cancelación tras la aprobación no está habilitada.
	assert.False(t, entity.RequisitionApproved.CanTransition(entity.RequisitionCancelled))
	assert.False(t, entity.RequisitionApproved.CanTransition(entity.RequisitionRejected))
	// Entrega directa desde pending tampoco.
	assert.False(t, entity.RequisitionPending.CanTransition(entity.RequisitionDelivered))
	// Los estados finales no admiten nada.
	for _, final := range []entity.RequisitionState{
		entity.RequisitionDelivered, entity.RequisitionRejected, entity.RequisitionCancelled,
	} {
		for _, to := range []entity.RequisitionState{
			entity.RequisitionPending, entity.RequisitionApproved, entity.RequisitionDelivered,
			entity.RequisitionRejected, entity.RequisitionCancelled,
		} {
			assert.False(t, final.CanTransition(to), "%s -> %s debe ser inválida", final, to)
		}
	}
}

func TestRequisitionState_Terminal(t *testing.T) {
	assert.False(t, entity.RequisitionPending.Terminal())
	assert.False(t, entity.RequisitionApproved.Terminal())
	assert.True(t, entity.RequisitionDelivered.Terminal())
	assert.True(t, entity.RequisitionRejected.Terminal())
	assert.True(t, entity.RequisitionCancelled.Terminal())
}

func TestRequisition_AppendObservation(t *testing.T) {
	req := &entity.Requisition{}
	req.AppendObservation("creada de urgencia")
	assert.Equal(t, "creada de urgencia", req.Observations)

	req.AppendObservation("Rechazada: sin stock")
	assert.Equal(t, "creada de urgencia | Rechazada: sin stock", req.Observations)

	req.AppendObservation("")
	assert.Equal(t, "creada de urgencia | Rechazada: sin stock", req.Observations,
		"texto vacío no agrega separador")
}

// ──────────────────────────────────────────────────────────────────────────────
// Hojas de consumo consolidado
// ──────────────────────────────────────────────────────────────────────────────

func TestSheetState_Transiciones(t *testing.T) {
	assert.True(t, entity.SheetActive.CanTransition(entity.SheetClosed))
	assert.True(t, entity.SheetActive.CanTransition(entity.SheetAnnulled))
	// Una hoja cerrada todavía puede anularse.
	assert.True(t, entity.SheetClosed.CanTransition(entity.SheetAnnulled))

	assert.False(t, entity.SheetClosed.CanTransition(entity.SheetActive))
	assert.False(t, entity.SheetAnnulled.CanTransition(entity.SheetActive))
	assert.False(t, entity.SheetAnnulled.CanTransition(entity.SheetClosed))
}
