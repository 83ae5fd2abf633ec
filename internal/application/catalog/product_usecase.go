package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/application/inventory"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo: alta, búsqueda y baja lógica.
type ProductUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	ledger   *inventory.Ledger
	log      zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner repository.TxRunner, repos repository.Repos, ledger *inventory.Ledger, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repos: repos, ledger: ledger, log: log}
}

// Create da de alta un producto. Si trae existencia registra el movimiento initial en la misma tx.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y name son requeridos", domain.ErrInvalidInput)
	}
	unit := entity.Unit(in.Unit)
	if in.Unit == "" {
		unit = entity.UnitPiece
	}
	if !unit.Valid() {
		return nil, fmt.Errorf("%w: unidad %q", domain.ErrInvalidInput, in.Unit)
	}
	if in.PriceCents < 0 || in.CostCents < 0 {
		return nil, fmt.Errorf("%w: precio y costo no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.Quantity.IsNegative() {
		return nil, fmt.Errorf("%w: la existencia no puede ser negativa", domain.ErrInvalidInput)
	}
	minStock := decimal.Zero
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, fmt.Errorf("%w: stock mínimo negativo", domain.ErrInvalidInput)
		}
		minStock = *in.MinStock
	}

	p := &entity.Product{
		SKU:        in.SKU,
		Barcode:    in.Barcode,
		Name:       in.Name,
		Unit:       unit,
		CostCents:  in.CostCents,
		PriceCents: in.PriceCents,
		Quantity:   in.Quantity,
		MinStock:   minStock,
		Active:     true,
	}
	txID := uuid.New().String()
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		if err := r.Products.Create(ctx, p); err != nil {
			return err
		}
		if p.Quantity.IsPositive() {
			if _, err := uc.ledger.RecordInitial(ctx, r, p, txID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", p.ID).Str("sku", p.SKU).Str("qty", p.Quantity.String()).Msg("producto creado")
	return toProductResponse(p), nil
}

// GetByID obtiene un producto; (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List devuelve el catálogo ordenado por nombre.
func (uc *ProductUseCase) List(ctx context.Context, includeInactive bool) (*dto.ProductListResponse, error) {
	list, err := uc.repos.Products.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// LowStock productos activos en o bajo su stock mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repos.Products.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// Find busca un producto activo por código de barras o SKU.
func (uc *ProductUseCase) Find(ctx context.Context, code string) (*dto.ProductResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: código vacío", domain.ErrInvalidInput)
	}
	p, err := uc.repos.Products.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %q: %w", code, domain.ErrNotFound)
	}
	return toProductResponse(p), nil
}

// Deactivate da de baja lógica el producto; nunca se borra la fila.
// Si tiene ventas o movimientos asociados exige confirm=true.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id int64, confirm bool) (*dto.DeactivateProductResponse, error) {
	var refs int
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producto %d: %w", id, domain.ErrNotFound)
		}
		if refs, err = r.Movements.CountReferences(ctx, id); err != nil {
			return err
		}
		if refs > 0 && !confirm {
			return fmt.Errorf("%w: el producto tiene %d movimientos; confirme la baja", domain.ErrInUse, refs)
		}
		return r.Products.SetActive(ctx, id, false)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Int("references", refs).Msg("producto desactivado")
	return &dto.DeactivateProductResponse{ID: id, Active: false, References: refs}, nil
}

func toProductList(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:         p.ID,
		SKU:        p.SKU,
		Barcode:    p.Barcode,
		Name:       p.Name,
		Unit:       string(p.Unit),
		CostCents:  p.CostCents,
		PriceCents: p.PriceCents,
		Quantity:   p.Quantity,
		MinStock:   p.MinStock,
		LowStock:   p.IsLowStock(),
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
