package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// GetSales lista ventas, la más reciente primero.
func (uc *SaleUseCase) GetSales(ctx context.Context, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.repos.Sales.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toSaleResponse(s))
	}
	return &dto.SaleListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// GetSale devuelve la venta con sus líneas y cobro.
func (uc *SaleUseCase) GetSale(ctx context.Context, id int64) (*dto.SaleDetailResponse, error) {
	s, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("venta %d: %w", id, domain.ErrNotFound)
	}
	items, err := uc.GetSaleItems(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleDetailResponse{SaleResponse: toSaleResponse(s), Items: items}
	p, err := uc.repos.Sales.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if p != nil {
		out.Payment = &dto.PaymentResponse{ID: p.ID, Method: string(p.Method), AmountCents: p.AmountCents, CreatedAt: p.CreatedAt}
	}
	return out, nil
}

// GetSaleItems devuelve las líneas tal como quedaron al vender (nunca se unen al catálogo vivo).
func (uc *SaleUseCase) GetSaleItems(ctx context.Context, saleID int64) ([]dto.SaleItemResponse, error) {
	list, err := uc.repos.Sales.GetItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, toSaleItemResponse(it))
	}
	return out, nil
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:            s.ID,
		TransactionID: s.TransactionID,
		CustomerID:    s.CustomerID,
		SaleDate:      s.SaleDate,
		SubtotalCents: s.SubtotalCents,
		DiscountCents: s.DiscountCents,
		TaxCents:      s.TaxCents,
		TotalCents:    s.TotalCents,
		PaymentMethod: string(s.PaymentMethod),
		Note:          s.Note,
	}
}

func toSaleItemResponse(it *entity.SaleItem) dto.SaleItemResponse {
	return dto.SaleItemResponse{
		ID:             it.ID,
		SaleID:         it.SaleID,
		ProductID:      it.ProductID,
		ProductName:    it.ProductName,
		Barcode:        it.Barcode,
		UnitPriceCents: it.UnitPriceCents,
		CostCents:      it.CostCents,
		Quantity:       it.Quantity,
		LineTotalCents: it.LineTotalCents,
		ProfitCents:    it.ProfitCents,
	}
}
