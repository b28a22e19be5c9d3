package kardex

import (
	"context"

	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/domain/repository"
)

// ReportPDFGenerator puerto de generación del Kardex en PDF (infraestructura).
type ReportPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, medicationName string, report *dto.KardexResponse) ([]byte, error)
}

// PDFUseCase genera la representación imprimible del Kardex de un producto.
type PDFUseCase struct {
	query       *QueryUseCase
	variantRepo repository.VariantRepository
	generator   ReportPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(query *QueryUseCase, variantRepo repository.VariantRepository, generator ReportPDFGenerator) *PDFUseCase {
	return &PDFUseCase{query: query, variantRepo: variantRepo, generator: generator}
}

// Generate reconstruye el Kardex y lo renderiza como PDF.
func (uc *PDFUseCase) Generate(ctx context.Context, in dto.KardexRequest) ([]byte, error) {
	report, err := uc.query.Query(ctx, in)
	if err != nil {
		return nil, err
	}
	variant, err := uc.variantRepo.GetByID(in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.ErrNotFound
	}
	return uc.generator.GenerateKardexPDF(ctx, variant.MedicationName, report)
}
