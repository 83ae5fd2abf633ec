package sales

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

// SaleUseCase motor de ventas: convierte un carrito en una venta confirmada con sus
// líneas, movimientos de inventario y cobro o deuda, todo en una sola transacción.
type SaleUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	stock    *inventory.Ledger
	debts    *debt.Ledger
	log      zerolog.Logger
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner repository.TxRunner, repos repository.Repos, stock *inventory.Ledger, debts *debt.Ledger, log zerolog.Logger) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, repos: repos, stock: stock, debts: debts, log: log}
}

type cartLine struct {
	productID int64
	qty       decimal.Decimal
}

// CreateSale valida el carrito y confirma la venta. Cualquier error antes del Commit
// deja existencias, deudas y ventas sin cambios (Rollback completo).
func (uc *SaleUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.CreateSaleResponse, error) {
	lines, err := normalizeItems(in.Items)
	if err != nil {
		return nil, err
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: forma de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	if method == entity.PaymentDebt && !hasCustomerData(in.Customer) {
		return nil, domain.ErrMissingCustomer
	}

	txID := uuid.New().String()
	sale := &entity.Sale{
		TransactionID: txID,
		PaymentMethod: method,
		Note:          strings.TrimSpace(in.Note),
	}

	err = uc.txRunner.Run(ctx, func(r repository.Repos) error {
		customer, err := resolveCustomer(ctx, r, in.Customer)
		if err != nil {
			return err
		}
		if method == entity.PaymentDebt && customer == nil {
			return domain.ErrMissingCustomer
		}
		if customer != nil {
			sale.CustomerID = &customer.ID
		}

		// Lectura del estado actual dentro de la tx: precio, costo y existencia vigentes.
		products := make([]*entity.Product, len(lines))
		var subtotal int64
		for i, l := range lines {
			p, err := r.Products.GetByID(ctx, l.productID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %d: %w", l.productID, domain.ErrNotFound)
			}
			if !p.Active {
				return fmt.Errorf("%w: producto %q inactivo", domain.ErrInvalidInput, p.Name)
			}
			if l.qty.GreaterThan(p.Quantity) {
				return fmt.Errorf("%w: %s (disponible %s, solicitado %s)",
					domain.ErrInsufficientStock, p.Name, p.Quantity, l.qty)
			}
			products[i] = p
			subtotal += entity.LineTotal(p.PriceCents, l.qty)
		}

		sale.SubtotalCents = subtotal
		sale.DiscountCents = clampDiscount(in.DiscountCents, subtotal)
		sale.TaxCents = 0
		sale.TotalCents = sale.SubtotalCents - sale.DiscountCents + sale.TaxCents
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for i, l := range lines {
			p := products[i]
			lineTotal := entity.LineTotal(p.PriceCents, l.qty)
			item := &entity.SaleItem{
				SaleID:         sale.ID,
				ProductID:      p.ID,
				ProductName:    p.Name,
				Barcode:        p.Barcode,
				UnitPriceCents: p.PriceCents,
				CostCents:      p.CostCents,
				Quantity:       l.qty,
				LineTotalCents: lineTotal,
				ProfitCents:    lineTotal - entity.LineTotal(p.CostCents, l.qty),
			}
			if err := r.Sales.CreateItem(ctx, item); err != nil {
				return err
			}
			if _, _, err := uc.stock.ConsumeForSale(ctx, r, p.ID, l.qty, sale.ID, txID); err != nil {
				return err
			}
		}

		if method == entity.PaymentDebt {
			_, err := uc.debts.Incur(ctx, r, customer.ID, sale.ID, sale.TotalCents)
			return err
		}
		return r.Sales.CreatePayment(ctx, &entity.Payment{
			SaleID:      sale.ID,
			Method:      method,
			AmountCents: sale.TotalCents,
		})
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", txID).Msg("venta rechazada")
		return nil, err
	}

	uc.log.Info().Str("transaction_id", txID).Int64("sale_id", sale.ID).
		Int64("total_cents", sale.TotalCents).Str("payment_method", string(method)).
		Int("lines", len(lines)).Msg("venta confirmada")
	return &dto.CreateSaleResponse{
		SaleID:        sale.ID,
		TransactionID: txID,
		CustomerID:    sale.CustomerID,
		SubtotalCents: sale.SubtotalCents,
		DiscountCents: sale.DiscountCents,
		TaxCents:      sale.TaxCents,
		TotalCents:    sale.TotalCents,
	}, nil
}

// normalizeItems valida el carrito y agrupa las líneas repetidas del mismo producto,
// conservando el orden de primera aparición.
func normalizeItems(items []dto.SaleItemRequest) ([]cartLine, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	index := make(map[int64]int, len(items))
	lines := make([]cartLine, 0, len(items))
	for _, it := range items {
		if it.ProductID <= 0 {
			return nil, fmt.Errorf("%w: product_id inválido", domain.ErrInvalidInput)
		}
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad debe ser mayor a cero", domain.ErrInvalidInput)
		}
		if i, ok := index[it.ProductID]; ok {
			lines[i].qty = lines[i].qty.Add(it.Quantity)
			continue
		}
		index[it.ProductID] = len(lines)
		lines = append(lines, cartLine{productID: it.ProductID, qty: it.Quantity})
	}
	return lines, nil
}

func clampDiscount(discount, subtotal int64) int64 {
	if discount < 0 {
		return 0
	}
	return min(discount, subtotal)
}

func hasCustomerData(c *dto.SaleCustomerRequest) bool {
	return c != nil && (strings.TrimSpace(c.Phone) != "" || strings.TrimSpace(c.Name) != "")
}

// resolveCustomer reutiliza el cliente por teléfono; si no existe y hay nombre, lo crea.
// Sin datos suficientes devuelve nil (venta sin cliente).
func resolveCustomer(ctx context.Context, r repository.Repos, in *dto.SaleCustomerRequest) (*entity.Customer, error) {
	if in == nil {
		return nil, nil
	}
	phone := strings.TrimSpace(in.Phone)
	name := strings.TrimSpace(in.Name)
	if phone != "" {
		c, err := r.Customers.GetByPhone(ctx, phone)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	if name == "" {
		return nil, nil
	}
	c := &entity.Customer{
		Name:    name,
		Phone:   phone,
		Email:   strings.TrimSpace(in.Email),
		Address: strings.TrimSpace(in.Address),
	}
	if err := r.Customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
