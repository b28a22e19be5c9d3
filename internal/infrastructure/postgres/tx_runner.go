package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dispensing"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/inventory"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/ward"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de cada contexto.
var _ inventory.TxRunner = (*InventoryTxRunner)(nil)
var _ dispensing.TxRunner = (*DispensingTxRunner)(nil)
var _ ward.TxRunner = (*WardTxRunner)(nil)

// runInTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(q Querier) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// InventoryTxRunner transacciones del almacén de lotes.
type InventoryTxRunner struct {
	pool *pgxpool.Pool
}

// NewInventoryTxRunner construye el runner con el pool.
func NewInventoryTxRunner(pool *pgxpool.Pool) *InventoryTxRunner {
	return &InventoryTxRunner{pool: pool}
}

// Run ejecuta fn con repos atados a una transacción.
func (r *InventoryTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(NewLotRepository(q), NewMovementRepository(q))
	})
}

// DispensingTxRunner transacciones de los flujos de despacho: requisiciones,
// hojas consolidadas y sus efectos sobre lotes, stock 24h y movimientos.
type DispensingTxRunner struct {
	pool *pgxpool.Pool
}

// NewDispensingTxRunner construye el runner con el pool.
func NewDispensingTxRunner(pool *pgxpool.Pool) *DispensingTxRunner {
	return &DispensingTxRunner{pool: pool}
}

// Run ejecuta fn con repos atados a una transacción.
func (r *DispensingTxRunner) Run(ctx context.Context, fn func(
	reqRepo repository.RequisitionRepository,
	sheetRepo repository.SheetRepository,
	lotRepo repository.LotRepository,
	bufferRepo repository.Stock24Repository,
	bufMovRepo repository.BufferMovementRepository,
	movRepo repository.MovementRepository,
) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(
			NewRequisitionRepository(q),
			NewSheetRepository(q),
			NewLotRepository(q),
			NewStock24Repository(q),
			NewBufferMovementRepository(q),
			NewMovementRepository(q),
		)
	})
}

// WardTxRunner transacciones del stock 24h: reposición y cuadre.
type WardTxRunner struct {
	pool *pgxpool.Pool
}

// NewWardTxRunner construye el runner con el pool.
func NewWardTxRunner(pool *pgxpool.Pool) *WardTxRunner {
	return &WardTxRunner{pool: pool}
}

// Run ejecuta fn con repos atados a una transacción.
func (r *WardTxRunner) Run(ctx context.Context, fn func(
	bufferRepo repository.Stock24Repository,
	bufMovRepo repository.BufferMovementRepository,
	replRepo repository.ReplenishmentRepository,
	cuadreRepo repository.CuadreRepository,
) error) error {
	return runInTx(ctx, r.pool, func(q Querier) error {
		return fn(
			NewStock24Repository(q),
			NewBufferMovementRepository(q),
			NewReplenishmentRepository(q),
			NewCuadreRepository(q),
		)
	})
}
