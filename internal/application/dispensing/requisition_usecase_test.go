package dispensing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dispensing"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
)

func newRequisitionUC(e env) *dispensing.RequisitionUseCase {
	return dispensing.NewRequisitionUseCase(e.runner, e.variants, e.runner.reqRepo)
}

func createReq(line dto.CreateRequisitionLineRequest, origin string) dto.CreateRequisitionRequest {
	return dto.CreateRequisitionRequest{
		ServiceID:      serviceID,
		DispatchOrigin: origin,
		Lines:          []dto.CreateRequisitionLineRequest{line},
	}
}

var expiryNear = time.Date(2027, 3, 31, 0, 0, 0, 0, time.UTC)

// ─────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────

func TestRequisitionCreate_QuedaPendienteConAutorizadoIgualASolicitado(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)

	req, err := uc.Create(context.Background(), "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition,
		Requested: decimal.NewFromInt(10),
		PatientID: "pac-1",
		Bed:       "C-04",
	}, ""))
	require.NoError(t, err)

	assert.Equal(t, entity.RequisitionPending, req.State)
	assert.Equal(t, entity.DispatchOriginWarehouse, req.DispatchOrigin, "origen por defecto es almacén")
	assert.Equal(t, "nurse-1", req.CreatedBy)
	require.Len(t, req.Lines, 1)
	assert.True(t, req.Lines[0].Authorized.Equal(req.Lines[0].Requested),
		"lo autorizado arranca igual a lo solicitado")
	assert.NotEmpty(t, req.Lines[0].ID)

	stored, err := uc.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionPending, stored.State)
}

func TestRequisitionCreate_ValidaEntrada(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	line := dto.CreateRequisitionLineRequest{VariantID: varRequisition, Requested: decimal.NewFromInt(1)}

	cases := []struct {
		name string
		in   dto.CreateRequisitionRequest
	}{
		{"sin servicio", dto.CreateRequisitionRequest{Lines: []dto.CreateRequisitionLineRequest{line}}},
		{"sin líneas", dto.CreateRequisitionRequest{ServiceID: serviceID}},
		{"origen desconocido", createReq(line, "bodega-central")},
		{"línea sin producto", createReq(dto.CreateRequisitionLineRequest{Requested: decimal.NewFromInt(1)}, "")},
		{"cantidad cero", createReq(dto.CreateRequisitionLineRequest{VariantID: varRequisition}, "")},
		{"producto inactivo", createReq(dto.CreateRequisitionLineRequest{VariantID: varInactive, Requested: decimal.NewFromInt(1)}, "")},
		{"producto inexistente", createReq(dto.CreateRequisitionLineRequest{VariantID: "no-existe", Requested: decimal.NewFromInt(1)}, "")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, "nurse-1", tc.in)
			assert.Equal(t, domain.ErrInvalidInput, err)
		})
	}
}

// ─────────────────────────────────────────────
// Approve
// ─────────────────────────────────────────────

func TestRequisitionApprove_AsignaLoteFEFOALineasDePrescripcion(t *testing.T) {
	e := newEnv()
	e.addLot("lot-tardio", varPrescription, expiryNear.AddDate(0, 3, 0), 50, 1.20)
	e.addLot("lot-proximo", varPrescription, expiryNear, 50, 1.20)
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varPrescription, Requested: decimal.NewFromInt(5),
	}, ""))
	require.NoError(t, err)

	approved, err := uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)

	assert.Equal(t, entity.RequisitionApproved, approved.State)
	assert.Equal(t, "pharma-1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.Lines[0].LotID, "la aprobación asigna lote FEFO")
	assert.Equal(t, "lot-proximo", *approved.Lines[0].LotID)
}

func TestRequisitionApprove_SinLoteElegibleNoFalla(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varPrescription, Requested: decimal.NewFromInt(5),
	}, ""))
	require.NoError(t, err)

	approved, err := uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err, "la falta de stock no bloquea la aprobación")
	assert.Nil(t, approved.Lines[0].LotID, "la línea queda sin asignar")
}

func TestRequisitionApprove_NoTocaLineasDeClasificacionRequisicion(t *testing.T) {
	e := newEnv()
	e.addLot("lot-1", varRequisition, expiryNear, 50, 1.20)
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(5),
	}, ""))
	require.NoError(t, err)

	approved, err := uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)
	assert.Nil(t, approved.Lines[0].LotID, "el FEFO automático es solo para prescripción")
}

func TestRequisitionApprove_AplicaOverridesDeAutorizado(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(10),
	}, ""))
	require.NoError(t, err)
	lineID := req.Lines[0].ID

	approved, err := uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{
		AuthorizedOverrides: map[string]decimal.Decimal{lineID: decimal.NewFromInt(6)},
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(6).Equal(approved.Lines[0].Authorized))
	assert.True(t, decimal.NewFromInt(10).Equal(approved.Lines[0].Requested), "lo solicitado no se pisa")

	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{
		AuthorizedOverrides: map[string]decimal.Decimal{lineID: decimal.NewFromInt(-1)},
	})
	assert.Equal(t, domain.ErrInvalidInput, err, "un override negativo se rechaza de entrada")
}

func TestRequisitionApprove_GuardDeEstado(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(1),
	}, ""))
	require.NoError(t, err)

	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.Approve(ctx, "pharma-2", req.ID, dto.ApproveRequisitionRequest{})
	assert.Equal(t, domain.ErrInvalidState, err, "una segunda aprobación no encuentra pending")

	_, err = uc.Approve(ctx, "pharma-1", "no-existe", dto.ApproveRequisitionRequest{})
	assert.Equal(t, domain.ErrNotFound, err)
}

// ─────────────────────────────────────────────
// Deliver
// ─────────────────────────────────────────────

func TestRequisitionDeliver_DesdeAlmacenRebajaLoteYEstampaCosto(t *testing.T) {
	e := newEnv()
	e.addLot("lot-1", varPrescription, expiryNear, 50, 2.75)
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varPrescription, Requested: decimal.NewFromInt(8),
	}, ""))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)

	delivered, err := uc.Deliver(ctx, "pharma-1", req.ID, dto.DeliverRequisitionRequest{})
	require.NoError(t, err)

	assert.Equal(t, entity.RequisitionDelivered, delivered.State)
	assert.Equal(t, "pharma-1", delivered.DeliveredBy)
	require.NotNil(t, delivered.DeliveredAt)

	line := delivered.Lines[0]
	assert.True(t, decimal.NewFromInt(8).Equal(line.Delivered), "sin cantidad explícita entrega lo autorizado")
	assert.True(t, decimal.NewFromFloat(2.75).Equal(line.UnitCost), "el costo se lee del lote al entregar")

	lot, _ := e.runner.lotRepo.GetByID("lot-1")
	assert.True(t, decimal.NewFromInt(42).Equal(lot.Quantity), "50 - 8 entregadas")

	require.Len(t, e.runner.movRepo.movements, 1)
	mov := e.runner.movRepo.movements[0]
	assert.Equal(t, entity.MovementOut, mov.Direction)
	assert.Equal(t, entity.MovementSourceRequisition, mov.Source)
	assert.Equal(t, req.ID, mov.SourceID)
	assert.True(t, decimal.NewFromFloat(2.75).Equal(mov.UnitCost))
}

func TestRequisitionDeliver_CantidadExplicitaPisaLaAutorizada(t *testing.T) {
	e := newEnv()
	e.addLot("lot-1", varPrescription, expiryNear, 50, 2.75)
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varPrescription, Requested: decimal.NewFromInt(8),
	}, ""))
	require.NoError(t, err)
	approved, err := uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)
	lineID := approved.Lines[0].ID

	delivered, err := uc.Deliver(ctx, "pharma-1", req.ID, dto.DeliverRequisitionRequest{
		DeliveredQuantities: map[string]decimal.Decimal{lineID: decimal.NewFromInt(3)},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(delivered.Lines[0].Delivered))

	lot, _ := e.runner.lotRepo.GetByID("lot-1")
	assert.True(t, decimal.NewFromInt(47).Equal(lot.Quantity))
}

func TestRequisitionDeliver_StockInsuficienteAborta(t *testing.T) {
	e := newEnv()
	e.addLot("lot-1", varPrescription, expiryNear, 5, 2.75)
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varPrescription, Requested: decimal.NewFromInt(8),
	}, ""))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.Deliver(ctx, "pharma-1", req.ID, dto.DeliverRequisitionRequest{})
	assert.Equal(t, domain.ErrInsufficientStock, err)

	stored, _ := uc.GetByID(ctx, req.ID)
	assert.Equal(t, entity.RequisitionApproved, stored.State, "la entrega fallida no cambia el estado")
}

func TestRequisitionDeliver_DesdeAlmacenSinLoteAsignadoFalla(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(2),
	}, ""))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.Deliver(ctx, "pharma-1", req.ID, dto.DeliverRequisitionRequest{})
	assert.Equal(t, domain.ErrInvalidInput, err, "entrega de almacén exige lote asignado")
}

func TestRequisitionDeliver_OrigenStock24RebajaBufferSinTocarLotes(t *testing.T) {
	e := newEnv()
	e.addLot("lot-1", varRequisition, expiryNear, 50, 2.75)
	e.addBuffer(varRequisition, 20, 15)
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(4),
	}, entity.DispatchOriginStock24))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.Deliver(ctx, "pharma-1", req.ID, dto.DeliverRequisitionRequest{})
	require.NoError(t, err)

	entry, _ := e.runner.bufferRepo.GetByVariant(varRequisition)
	assert.True(t, decimal.NewFromInt(11).Equal(entry.CurrentQuantity), "15 - 4 consumidas")

	lot, _ := e.runner.lotRepo.GetByID("lot-1")
	assert.True(t, decimal.NewFromInt(50).Equal(lot.Quantity), "el almacén no se toca")
	assert.Empty(t, e.runner.movRepo.movements, "el consumo de buffer no entra al Kardex del almacén")

	require.Len(t, e.runner.bufMovRepo.movements, 1)
	bm := e.runner.bufMovRepo.movements[0]
	assert.Equal(t, entity.BufferMovementConsumption, bm.Type)
	assert.True(t, decimal.NewFromInt(-4).Equal(bm.Quantity), "el consumo se registra negativo")
	assert.Equal(t, req.ID, bm.Reference)
}

func TestRequisitionDeliver_OrigenStock24SinInscripcionFalla(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(4),
	}, entity.DispatchOriginStock24))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)

	_, err = uc.Deliver(ctx, "pharma-1", req.ID, dto.DeliverRequisitionRequest{})
	assert.Equal(t, domain.ErrNotFound, err)
}

func TestRequisitionDeliver_DesdePendingFalla(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(1),
	}, ""))
	require.NoError(t, err)

	_, err = uc.Deliver(ctx, "pharma-1", req.ID, dto.DeliverRequisitionRequest{})
	assert.Equal(t, domain.ErrInvalidState, err, "entregar exige aprobación previa")
}

// ─────────────────────────────────────────────
// Reject y Cancel
// ─────────────────────────────────────────────

func TestRequisitionReject_ConcatenaMotivo(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	in := createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(1),
	}, "")
	in.Observations = "urgente"
	req, err := uc.Create(ctx, "nurse-1", in)
	require.NoError(t, err)

	rejected, err := uc.Reject(ctx, "pharma-1", req.ID, dto.RejectRequisitionRequest{Reason: "sin indicación médica"})
	require.NoError(t, err)

	assert.Equal(t, entity.RequisitionRejected, rejected.State)
	assert.Equal(t, "pharma-1", rejected.RejectedBy)
	require.NotNil(t, rejected.RejectedAt)
	assert.Equal(t, "urgente | Rechazada: sin indicación médica", rejected.Observations)

	_, err = uc.Approve(ctx, "pharma-1", req.ID, dto.ApproveRequisitionRequest{})
	assert.Equal(t, domain.ErrInvalidState, err, "rejected es terminal")
}

func TestRequisitionCancel_SoloDesdePending(t *testing.T) {
	e := newEnv()
	uc := newRequisitionUC(e)
	ctx := context.Background()

	req, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(1),
	}, ""))
	require.NoError(t, err)

	cancelled, err := uc.Cancel(ctx, "nurse-1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequisitionCancelled, cancelled.State)
	assert.Contains(t, cancelled.Observations, "Cancelada por nurse-1")

	// Una requisición aprobada ya no se puede cancelar.
	req2, err := uc.Create(ctx, "nurse-1", createReq(dto.CreateRequisitionLineRequest{
		VariantID: varRequisition, Requested: decimal.NewFromInt(1),
	}, ""))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, "pharma-1", req2.ID, dto.ApproveRequisitionRequest{})
	require.NoError(t, err)
	_, err = uc.Cancel(ctx, "nurse-1", req2.ID)
	assert.Equal(t, domain.ErrInvalidState, err)
}
