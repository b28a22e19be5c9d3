package ward_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/entity"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// Fakes en memoria compartidos por los tests de stock 24h y cuadre.

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

type fakeStock24Repo struct {
	entries map[string]*entity.Stock24Entry // por VariantID
	order   []string                        // orden de inscripción
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
	f.order = append(f.order, entry.VariantID)
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
	for _, id := range f.order {
		e := f.entries[id]
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

type fakeReplenishmentRepo struct {
	reps map[string]*entity.Replenishment
}

func newFakeReplenishmentRepo() *fakeReplenishmentRepo {
	return &fakeReplenishmentRepo{reps: map[string]*entity.Replenishment{}}
}

func (f *fakeReplenishmentRepo) Create(rep *entity.Replenishment) error {
	cp := *rep
	cp.Lines = append([]entity.ReplenishmentLine(nil), rep.Lines...)
	f.reps[rep.ID] = &cp
	return nil
}

func (f *fakeReplenishmentRepo) GetByID(id string) (*entity.Replenishment, error) {
	if r, ok := f.reps[id]; ok {
		cp := *r
		cp.Lines = append([]entity.ReplenishmentLine(nil), r.Lines...)
		return &cp, nil
	}
	return nil, nil
}

type fakeCuadreRepo struct {
	cuadres map[string]*entity.Cuadre
}

func newFakeCuadreRepo() *fakeCuadreRepo {
	return &fakeCuadreRepo{cuadres: map[string]*entity.Cuadre{}}
}

func cloneCuadre(c *entity.Cuadre) *entity.Cuadre {
	cp := *c
	cp.Lines = append([]entity.CuadreLine(nil), c.Lines...)
	return &cp
}

func (f *fakeCuadreRepo) Create(cuadre *entity.Cuadre) error {
	f.cuadres[cuadre.ID] = cloneCuadre(cuadre)
	return nil
}

func (f *fakeCuadreRepo) GetByID(id string) (*entity.Cuadre, error) {
	if c, ok := f.cuadres[id]; ok {
		return cloneCuadre(c), nil
	}
	return nil, nil
}

func (f *fakeCuadreRepo) GetForUpdate(id string) (*entity.Cuadre, error) {
	return f.GetByID(id)
}

func (f *fakeCuadreRepo) UpdateHeader(cuadre *entity.Cuadre) error {
	stored := f.cuadres[cuadre.ID]
	lines := stored.Lines
	f.cuadres[cuadre.ID] = cloneCuadre(cuadre)
	f.cuadres[cuadre.ID].Lines = lines
	return nil
}

func (f *fakeCuadreRepo) UpdateLine(line *entity.CuadreLine) error {
	for _, c := range f.cuadres {
		for i := range c.Lines {
			if c.Lines[i].ID == line.ID {
				c.Lines[i] = *line
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (f *fakeCuadreRepo) ListRecent(limit, offset int) ([]*entity.Cuadre, error) {
	var out []*entity.Cuadre
	for _, c := range f.cuadres {
		out = append(out, cloneCuadre(c))
	}
	return out, nil
}

type fakeLotRepo struct {
	lots map[string]*entity.Lot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: map[string]*entity.Lot{}}
}

func (f *fakeLotRepo) Create(lot *entity.Lot) error {
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

func (f *fakeLotRepo) GetByIDForUpdate(id string) (*entity.Lot, error) { return f.GetByID(id) }

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

func (f *fakeLotRepo) SelectFEFO(variantID string) (*entity.Lot, error) { return nil, nil }

func (f *fakeLotRepo) ListByVariant(variantID string, onlyActive bool) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, l := range f.lots {
		if l.VariantID == variantID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeTxRunner entrega los fakes directamente; la atomicidad real vive en el
// adaptador de postgres.
type fakeTxRunner struct {
	bufferRepo *fakeStock24Repo
	bufMovRepo *fakeBufferMovementRepo
	replRepo   *fakeReplenishmentRepo
	cuadreRepo *fakeCuadreRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.Stock24Repository,
	repository.BufferMovementRepository,
	repository.ReplenishmentRepository,
	repository.CuadreRepository,
) error) error {
	return fn(f.bufferRepo, f.bufMovRepo, f.replRepo, f.cuadreRepo)
}

const (
	varDipirona = "var-dipirona"
	varKetorol  = "var-ketorolaco"
	varInactive = "var-retirado"
)

type env struct {
	runner   *fakeTxRunner
	variants *fakeVariantRepo
	lotRepo  *fakeLotRepo
}

func newEnv() env {
	return env{
		runner: &fakeTxRunner{
			bufferRepo: newFakeStock24Repo(),
			bufMovRepo: &fakeBufferMovementRepo{},
			replRepo:   newFakeReplenishmentRepo(),
			cuadreRepo: newFakeCuadreRepo(),
		},
		variants: &fakeVariantRepo{variants: map[string]*entity.ProductVariant{
			varDipirona: {ID: varDipirona, MedicationName: "Dipirona 1g", Active: true},
			varKetorol:  {ID: varKetorol, MedicationName: "Ketorolaco 30mg", Active: true},
			varInactive: {ID: varInactive, MedicationName: "Retirado", Active: false},
		}},
		lotRepo: newFakeLotRepo(),
	}
}

// addBuffer siembra una inscripción activa del stock 24h.
func (e env) addBuffer(variantID string, par, current float64) {
	e.runner.bufferRepo.Create(&entity.Stock24Entry{
		ID:              "buf-" + variantID,
		VariantID:       variantID,
		ParQuantity:     decimal.NewFromFloat(par),
		CurrentQuantity: decimal.NewFromFloat(current),
		Active:          true,
	})
}

// addLot siembra un lote en el almacén de los fakes.
func (e env) addLot(id, variantID string, qty float64) {
	e.lotRepo.Create(&entity.Lot{
		ID:        id,
		VariantID: variantID,
		LotNumber: "LN-" + id,
		Quantity:  decimal.NewFromFloat(qty),
		Active:    true,
	})
}
