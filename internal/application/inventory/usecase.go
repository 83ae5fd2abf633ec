package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// StockUseCase operaciones de inventario expuestas a la interfaz: ajuste absoluto,
// entrada de mercancía e historial de movimientos.
type StockUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	ledger   *Ledger
	log      zerolog.Logger
}

// NewStockUseCase construye el caso de uso. repos son los repositorios de lectura (fuera de tx).
func NewStockUseCase(txRunner repository.TxRunner, repos repository.Repos, ledger *Ledger, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, repos: repos, ledger: ledger, log: log}
}

// SetStock fija la existencia absoluta del producto (ajuste manual).
func (uc *StockUseCase) SetStock(ctx context.Context, productID int64, in dto.SetStockRequest) (*dto.StockMovementResponse, error) {
	txID := uuid.New().String()
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		mov, err = uc.ledger.AdjustTo(ctx, r, productID, in.Quantity, txID, in.Note)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transaction_id", txID).Int64("product_id", productID).
		Str("old_qty", mov.OldQuantity.String()).Str("new_qty", mov.NewQuantity.String()).
		Msg("ajuste de existencia")
	out := ToMovementResponse(mov)
	return &out, nil
}

// ReceiveStock registra una entrada de mercancía.
func (uc *StockUseCase) ReceiveStock(ctx context.Context, productID int64, in dto.ReceiveStockRequest) (*dto.StockMovementResponse, error) {
	txID := uuid.New().String()
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		var err error
		mov, err = uc.ledger.Receive(ctx, r, productID, in.Quantity, in.CostCents, txID, in.Note)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transaction_id", txID).Int64("product_id", productID).
		Str("qty", mov.Quantity.String()).Str("new_qty", mov.NewQuantity.String()).
		Msg("entrada de mercancía")
	out := ToMovementResponse(mov)
	return &out, nil
}

// ListMovements historial del producto, el más reciente primero.
func (uc *StockUseCase) ListMovements(ctx context.Context, productID int64, limit, offset int) (*dto.StockMovementListResponse, error) {
	list, err := uc.repos.Movements.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// ToMovementResponse convierte el movimiento a su DTO.
func ToMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		Kind:          string(m.Kind),
		Quantity:      m.Quantity,
		OldQuantity:   m.OldQuantity,
		NewQuantity:   m.NewQuantity,
		CostCents:     m.CostCents,
		PriceCents:    m.PriceCents,
		SaleID:        m.SaleID,
		ReturnID:      m.ReturnID,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

