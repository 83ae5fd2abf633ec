package returns

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pos/internal/application/debt"
	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/application/inventory"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// ReturnUseCase motor de devoluciones: revierte total o parcialmente una venta
// reingresando existencias, reduciendo la deuda asociada y/o registrando el reembolso.
type ReturnUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	stock    *inventory.Ledger
	debts    *debt.Ledger
	log      zerolog.Logger
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(txRunner repository.TxRunner, repos repository.Repos, stock *inventory.Ledger, debts *debt.Ledger, log zerolog.Logger) *ReturnUseCase {
	return &ReturnUseCase{txRunner: txRunner, repos: repos, stock: stock, debts: debts, log: log}
}

type returnLine struct {
	saleItemID int64
	qty        decimal.Decimal
}

// CreateReturn registra la devolución de una venta en una sola transacción.
func (uc *ReturnUseCase) CreateReturn(ctx context.Context, saleID int64, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	lines, err := normalizeLines(in.Lines)
	if err != nil {
		return nil, err
	}
	if in.Refund != nil {
		if in.Refund.Cents < 0 {
			return nil, fmt.Errorf("%w: reembolso negativo", domain.ErrInvalidInput)
		}
		if in.Refund.Cents > 0 && !entity.RefundMethod(in.Refund.Method).Valid() {
			return nil, fmt.Errorf("%w: método de reembolso %q", domain.ErrInvalidInput, in.Refund.Method)
		}
	}
	if in.DebtReduceCents != nil && *in.DebtReduceCents < 0 {
		return nil, fmt.Errorf("%w: reducción de deuda negativa", domain.ErrInvalidInput)
	}

	txID := uuid.New().String()
	ret := &entity.SaleReturn{
		TransactionID: txID,
		SaleID:        saleID,
		Note:          strings.TrimSpace(in.Note),
	}

	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		sale, err := r.Sales.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return fmt.Errorf("venta %d: %w", saleID, domain.ErrReturnNotFound)
		}
		saleItems, err := r.Sales.GetItems(ctx, saleID)
		if err != nil {
			return err
		}
		byID := make(map[int64]*entity.SaleItem, len(saleItems))
		lineTotals := make([]int64, len(saleItems))
		for i, it := range saleItems {
			byID[it.ID] = it
			lineTotals[i] = it.LineTotalCents
		}
		charged := make(map[int64]int64, len(saleItems))
		for i, c := range entity.ChargedCents(lineTotals, sale.DiscountCents) {
			charged[saleItems[i].ID] = c
		}
		returned, err := r.Returns.ReturnedBySaleItem(ctx, saleID)
		if err != nil {
			return err
		}
		var prevTotal int64
		for _, rl := range returned {
			prevTotal += rl.TotalCents
		}

		// Validación y valorización al precio original de cada línea.
		items := make([]*entity.SaleReturnItem, 0, len(lines))
		for _, l := range lines {
			si, ok := byID[l.saleItemID]
			if !ok {
				return fmt.Errorf("línea %d de la venta %d: %w", l.saleItemID, saleID, domain.ErrReturnNotFound)
			}
			prev := returned[si.ID]
			if prev.Quantity.Add(l.qty).GreaterThan(si.Quantity) {
				return fmt.Errorf("%w: %s (vendido %s, ya devuelto %s, solicitado %s)",
					domain.ErrOverReturn, si.ProductName, si.Quantity, prev.Quantity, l.qty)
			}
			items = append(items, &entity.SaleReturnItem{
				SaleItemID:     si.ID,
				ProductID:      si.ProductID,
				Quantity:       l.qty,
				UnitPriceCents: si.UnitPriceCents,
				LineTotalCents: returnLineTotal(si, charged[si.ID], prev, l.qty),
			})
		}
		for _, it := range items {
			ret.TotalCents += it.LineTotalCents
		}
		if prevTotal+ret.TotalCents > sale.TotalCents {
			return fmt.Errorf("%w: devuelto %d + %d supera el total cobrado %d de la venta %d",
				domain.ErrOverReturn, prevTotal, ret.TotalCents, sale.TotalCents, saleID)
		}

		var saleDebt *entity.Debt
		if sale.PaymentMethod == entity.PaymentDebt {
			if saleDebt, err = r.Debts.GetBySale(ctx, saleID); err != nil {
				return err
			}
		}
		if err := splitRefund(ret, sale, saleDebt, in); err != nil {
			return err
		}

		if err := r.Returns.Create(ctx, ret); err != nil {
			return err
		}
		for _, it := range items {
			it.ReturnID = ret.ID
			if err := r.Returns.CreateItem(ctx, it); err != nil {
				return err
			}
			if _, err := uc.stock.RestoreForReturn(ctx, r, it.ProductID, it.Quantity, saleID, ret.ID, txID); err != nil {
				return err
			}
			ret.Items = append(ret.Items, *it)
		}
		if ret.DebtReducedCents > 0 {
			return uc.debts.ReduceForReturn(ctx, r, saleDebt, ret.ID, ret.DebtReducedCents)
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", txID).Int64("sale_id", saleID).Msg("devolución rechazada")
		return nil, err
	}

	uc.log.Info().Str("transaction_id", txID).Int64("return_id", ret.ID).Int64("sale_id", saleID).
		Int64("total_cents", ret.TotalCents).Int64("debt_reduced_cents", ret.DebtReducedCents).
		Int64("refund_cents", ret.RefundCents).Msg("devolución registrada")
	return ToReturnResponse(ret), nil
}

// ListBySale devoluciones de la venta con sus líneas.
func (uc *ReturnUseCase) ListBySale(ctx context.Context, saleID int64) ([]dto.ReturnResponse, error) {
	s, err := uc.repos.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("venta %d: %w", saleID, domain.ErrNotFound)
	}
	list, err := uc.repos.Returns.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReturnResponse, 0, len(list))
	for _, ret := range list {
		out = append(out, *ToReturnResponse(ret))
	}
	return out, nil
}

func normalizeLines(in []dto.ReturnLineRequest) ([]returnLine, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la devolución no tiene líneas", domain.ErrInvalidInput)
	}
	index := make(map[int64]int, len(in))
	lines := make([]returnLine, 0, len(in))
	for _, l := range in {
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad a devolver debe ser mayor a cero", domain.ErrInvalidInput)
		}
		if i, ok := index[l.SaleItemID]; ok {
			lines[i].qty = lines[i].qty.Add(l.Quantity)
			continue
		}
		index[l.SaleItemID] = len(lines)
		lines = append(lines, returnLine{saleItemID: l.SaleItemID, qty: l.Quantity})
	}
	return lines, nil
}

// returnLineTotal valoriza qty a la parte cobrada de la línea (precio original menos su
// porción del descuento de la venta). Al devolver el remanente completo se usa exactamente
// lo que falta, así la suma de devoluciones nunca supera lo cobrado aunque haya redondeos.
func returnLineTotal(si *entity.SaleItem, chargedCents int64, prev repository.ReturnedLine, qty decimal.Decimal) int64 {
	remaining := chargedCents - prev.TotalCents
	if prev.Quantity.Add(qty).Equal(si.Quantity) {
		return max(remaining, 0)
	}
	value := decimal.NewFromInt(chargedCents).Mul(qty).Div(si.Quantity).Round(0).IntPart()
	return max(min(value, remaining), 0)
}

// splitRefund reparte ret.TotalCents entre reducción de deuda y reembolso monetario.
// Sin indicaciones del cajero: las ventas a crédito reducen primero la deuda pendiente y
// el resto se reembolsa en efectivo; las demás reembolsan todo (tarjeta sigue en tarjeta).
func splitRefund(ret *entity.SaleReturn, sale *entity.Sale, saleDebt *entity.Debt, in dto.CreateReturnRequest) error {
	var outstanding int64
	if saleDebt != nil {
		outstanding = saleDebt.Outstanding()
	}

	if in.Refund == nil && in.DebtReduceCents == nil {
		ret.DebtReducedCents = min(outstanding, ret.TotalCents)
		ret.RefundCents = ret.TotalCents - ret.DebtReducedCents
		if ret.RefundCents > 0 {
			m := entity.RefundCash
			if sale.PaymentMethod == entity.PaymentCard {
				m = entity.RefundCard
			}
			ret.RefundMethod = &m
		}
		return nil
	}

	if in.DebtReduceCents != nil {
		ret.DebtReducedCents = *in.DebtReduceCents
	}
	if in.Refund != nil {
		ret.RefundCents = in.Refund.Cents
		if ret.RefundCents > 0 {
			m := entity.RefundMethod(in.Refund.Method)
			ret.RefundMethod = &m
		}
	}
	if ret.DebtReducedCents > 0 && saleDebt == nil {
		return fmt.Errorf("%w: la venta %d no tiene deuda que reducir", domain.ErrInvalidInput, sale.ID)
	}
	if ret.DebtReducedCents > outstanding {
		return fmt.Errorf("%w: reducción %d supera el saldo pendiente %d", domain.ErrInvalidInput, ret.DebtReducedCents, outstanding)
	}
	if ret.DebtReducedCents+ret.RefundCents > ret.TotalCents {
		return fmt.Errorf("%w: reembolso %d + reducción %d supera el valor devuelto %d",
			domain.ErrInvalidInput, ret.RefundCents, ret.DebtReducedCents, ret.TotalCents)
	}
	return nil
}

// ToReturnResponse convierte la devolución a su DTO.
func ToReturnResponse(ret *entity.SaleReturn) *dto.ReturnResponse {
	out := &dto.ReturnResponse{
		ID:               ret.ID,
		TransactionID:    ret.TransactionID,
		SaleID:           ret.SaleID,
		TotalCents:       ret.TotalCents,
		DebtReducedCents: ret.DebtReducedCents,
		RefundCents:      ret.RefundCents,
		Note:             ret.Note,
		CreatedAt:        ret.CreatedAt,
		Items:            make([]dto.ReturnItemResponse, 0, len(ret.Items)),
	}
	if ret.RefundMethod != nil {
		out.RefundMethod = string(*ret.RefundMethod)
	}
	for _, it := range ret.Items {
		out.Items = append(out.Items, dto.ReturnItemResponse{
			ID:             it.ID,
			SaleItemID:     it.SaleItemID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			LineTotalCents: it.LineTotalCents,
		})
	}
	return out
}
