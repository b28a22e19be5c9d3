package dispensing_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// Fakes en memoria compartidos por los tests de requisiciones y hojas.

type fakeVariantRepo struct {
	variants map[string]*entity.ProductVariant
}

func (f *fakeVariantRepo) GetByID(id string) (*entity.ProductVariant, error) {
	return f.variants[id], nil
}

func (f *fakeVariantRepo) List(onlyActive bool, limit, offset int) ([]*entity.ProductVariant, error) {
	var out []*entity.ProductVariant
	for _, v := range f.variants {
		if onlyActive && !v.Active {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type fakeRequisitionRepo struct {
	reqs map[string]*entity.Requisition
}

func newFakeRequisitionRepo() *fakeRequisitionRepo {
	return &fakeRequisitionRepo{reqs: map[string]*entity.Requisition{}}
}

func cloneReq(r *entity.Requisition) *entity.Requisition {
	cp := *r
	cp.Lines = append([]entity.RequisitionLine(nil), r.Lines...)
	return &cp
}

func (f *fakeRequisitionRepo) Create(req *entity.Requisition) error {
	f.reqs[req.ID] = cloneReq(req)
	return nil
}

func (f *fakeRequisitionRepo) GetByID(id string) (*entity.Requisition, error) {
	if r, ok := f.reqs[id]; ok {
		return cloneReq(r), nil
	}
	return nil, nil
}

func (f *fakeRequisitionRepo) GetForUpdate(id string) (*entity.Requisition, error) {
	return f.GetByID(id)
}

func (f *fakeRequisitionRepo) UpdateHeader(req *entity.Requisition) error {
	stored := f.reqs[req.ID]
	lines := stored.Lines
	f.reqs[req.ID] = cloneReq(req)
	f.reqs[req.ID].Lines = lines
	return nil
}

func (f *fakeRequisitionRepo) UpdateLine(line *entity.RequisitionLine) error {
	for _, r := range f.reqs {
		for i := range r.Lines {
			if r.Lines[i].ID == line.ID {
				r.Lines[i] = *line
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRequisitionRepo) ListByService(serviceID string, state entity.RequisitionState, limit, offset int) ([]*entity.Requisition, error) {
	var out []*entity.Requisition
	for _, r := range f.reqs {
		if r.ServiceID != serviceID {
			continue
		}
		if state != "" && r.State != state {
			continue
		}
		out = append(out, cloneReq(r))
	}
	return out, nil
}

type fakeSheetRepo struct {
	sheets map[string]*entity.ConsolidatedSheet
}

func newFakeSheetRepo() *fakeSheetRepo {
	return &fakeSheetRepo{sheets: map[string]*entity.ConsolidatedSheet{}}
}

func cloneSheet(s *entity.ConsolidatedSheet) *entity.ConsolidatedSheet {
	cp := *s
	cp.Lines = append([]entity.SheetLine(nil), s.Lines...)
	return &cp
}

func (f *fakeSheetRepo) Create(sheet *entity.ConsolidatedSheet) error {
	f.sheets[sheet.ID] = cloneSheet(sheet)
	return nil
}

func (f *fakeSheetRepo) GetByID(id string) (*entity.ConsolidatedSheet, error) {
	if s, ok := f.sheets[id]; ok {
		return cloneSheet(s), nil
	}
	return nil, nil
}

func (f *fakeSheetRepo) GetForUpdate(id string) (*entity.ConsolidatedSheet, error) {
	return f.GetByID(id)
}

func (f *fakeSheetRepo) UpdateHeader(sheet *entity.ConsolidatedSheet) error {
	stored := f.sheets[sheet.ID]
	lines := stored.Lines
	f.sheets[sheet.ID] = cloneSheet(sheet)
	f.sheets[sheet.ID].Lines = lines
	return nil
}

func (f *fakeSheetRepo) ReplaceLines(sheetID string, lines []entity.SheetLine) error {
	f.sheets[sheetID].Lines = append([]entity.SheetLine(nil), lines...)
	return nil
}

func (f *fakeSheetRepo) ListByService(serviceID string, state entity.SheetState, limit, offset int) ([]*entity.ConsolidatedSheet, error) {
	var out []*entity.ConsolidatedSheet
	for _, s := range f.sheets {
		if s.ServiceID != serviceID {
			continue
		}
		if state != "" && s.State != state {
			continue
		}
		out = append(out, cloneSheet(s))
	}
	return out, nil
}

type fakeLotRepo struct {
	lots    map[string]*entity.Lot
	nextSeq int64
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: map[string]*entity.Lot{}}
}

func (f *fakeLotRepo) Create(lot *entity.Lot) error {
	f.nextSeq++
	lot.Sequence = f.nextSeq
	cp := *lot
	f.lots[lot.ID] = &cp
	return nil
}

func (f *fakeLotRepo) GetByID(id string) (*entity.Lot, error) {
	if l, ok := f.lots[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeLotRepo) GetByIDForUpdate(id string) (*entity.Lot, error) {
	return f.GetByID(id)
}

func (f *fakeLotRepo) GetByNumber(variantID, lotNumber string) (*entity.Lot, error) {
	for _, l := range f.lots {
		if l.VariantID == variantID && l.LotNumber == lotNumber {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLotRepo) GetByNumberForUpdate(variantID, lotNumber string) (*entity.Lot, error) {
	return f.GetByNumber(variantID, lotNumber)
}

func (f *fakeLotRepo) Update(lot *entity.Lot) error {
	cp := *lot
	f.lots[lot.ID] = &cp
	return nil
}

func (f *fakeLotRepo) UpdateQuantity(id string, quantity decimal.Decimal) error {
	f.lots[id].Quantity = quantity
	return nil
}

func (f *fakeLotRepo) SelectFEFO(variantID string) (*entity.Lot, error) {
	var best *entity.Lot
	for _, l := range f.lots {
		if l.VariantID != variantID || !l.HasStock() {
			continue
		}
		if best == nil ||
			l.Expiry.Before(best.Expiry) ||
			(l.Expiry.Equal(best.Expiry) && l.Sequence < best.Sequence) {
			best = l
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeLotRepo) ListByVariant(variantID string, onlyActive bool) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range f.lots {
		if l.VariantID != variantID {
			continue
		}
		if onlyActive && !l.Active {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

type fakeStock24Repo struct {
	entries map[string]*entity.Stock24Entry // por VariantID
}

func newFakeStock24Repo() *fakeStock24Repo {
	return &fakeStock24Repo{entries: map[string]*entity.Stock24Entry{}}
}

func (f *fakeStock24Repo) Create(entry *entity.Stock24Entry) error {
	if _, ok := f.entries[entry.VariantID]; ok {
		return domain.ErrDuplicateEnrollment
	}
	cp := *entry
	f.entries[entry.VariantID] = &cp
	return nil
}

func (f *fakeStock24Repo) GetByVariant(variantID string) (*entity.Stock24Entry, error) {
	if e, ok := f.entries[variantID]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStock24Repo) GetByVariantForUpdate(variantID string) (*entity.Stock24Entry, error) {
	return f.GetByVariant(variantID)
}

func (f *fakeStock24Repo) Update(entry *entity.Stock24Entry) error {
	cp := *entry
	f.entries[entry.VariantID] = &cp
	return nil
}

func (f *fakeStock24Repo) ListActive() ([]*entity.Stock24Entry, error) {
	var out []*entity.Stock24Entry
	for _, e := range f.entries {
		if !e.Active {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

type fakeBufferMovementRepo struct {
	movements []*entity.BufferMovement
}

func (f *fakeBufferMovementRepo) Create(mov *entity.BufferMovement) error {
	cp := *mov
	f.movements = append(f.movements, &cp)
	return nil
}

func (f *fakeBufferMovementRepo) ListByVariant(variantID string, limit, offset int) ([]*entity.BufferMovement, error) {
	var out []*entity.BufferMovement
	for _, m := range f.movements {
		if m.VariantID == variantID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	movements []*entity.Movement
	nextRef   int64
}

func (f *fakeMovementRepo) Create(mov *entity.Movement) error {
	f.nextRef++
	mov.Reference = f.nextRef
	cp := *mov
	f.movements = append(f.movements, &cp)
	return nil
}

func (f *fakeMovementRepo) ListByVariant(variantID string, from, to time.Time) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range f.movements {
		if m.VariantID == variantID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeTxRunner entrega los fakes directamente; la atomicidad real vive en el
// adaptador de postgres.
type fakeTxRunner struct {
	reqRepo    *fakeRequisitionRepo
	sheetRepo  *fakeSheetRepo
	lotRepo    *fakeLotRepo
	bufferRepo *fakeStock24Repo
	bufMovRepo *fakeBufferMovementRepo
	movRepo    *fakeMovementRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.RequisitionRepository,
	repository.SheetRepository,
	repository.LotRepository,
	repository.Stock24Repository,
	repository.BufferMovementRepository,
	repository.MovementRepository,
) error) error {
	return fn(f.reqRepo, f.sheetRepo, f.lotRepo, f.bufferRepo, f.bufMovRepo, f.movRepo)
}

// env arma los fakes y el catálogo base de productos de los tests.
type env struct {
	runner   *fakeTxRunner
	variants *fakeVariantRepo
}

const (
	varRequisition  = "var-suero"       // clasificación requisition
	varPrescription = "var-tramadol"    // clasificación prescription (FEFO)
	varInactive     = "var-retirado"    // producto inactivo
	serviceID       = "svc-emergencias" // servicio de los tests
)

func newEnv() env {
	return env{
		runner: &fakeTxRunner{
			reqRepo:    newFakeRequisitionRepo(),
			sheetRepo:  newFakeSheetRepo(),
			lotRepo:    newFakeLotRepo(),
			bufferRepo: newFakeStock24Repo(),
			bufMovRepo: &fakeBufferMovementRepo{},
			movRepo:    &fakeMovementRepo{},
		},
		variants: &fakeVariantRepo{variants: map[string]*entity.ProductVariant{
			varRequisition: {
				ID: varRequisition, MedicationName: "Suero fisiológico",
				Classification: entity.ClassificationRequisition, Active: true,
			},
			varPrescription: {
				ID: varPrescription, MedicationName: "Tramadol 50mg",
				Classification: entity.ClassificationPrescription, Active: true,
			},
			varInactive: {
				ID: varInactive, MedicationName: "Retirado", Active: false,
			},
		}},
	}
}

// addLot siembra un lote activo en el almacén de los fakes.
func (e env) addLot(id, variantID string, expiry time.Time, qty, cost float64) {
	e.runner.lotRepo.Create(&entity.Lot{
		ID:        id,
		VariantID: variantID,
		LotNumber: "LN-" + id,
		Expiry:    expiry,
		Quantity:  decimal.NewFromFloat(qty),
		UnitCost:  decimal.NewFromFloat(cost),
		Active:    true,
	})
}

// addBuffer siembra una inscripción de stock 24h.
func (e env) addBuffer(variantID string, par, current float64) {
	e.runner.bufferRepo.Create(&entity.Stock24Entry{
		ID:              "buf-" + variantID,
		VariantID:       variantID,
		ParQuantity:     decimal.NewFromFloat(par),
		CurrentQuantity: decimal.NewFromFloat(current),
		Active:          true,
	})
}
