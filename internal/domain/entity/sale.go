package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de pago de la venta.
type PaymentMethod string

// Formas de pago. Mixed es solo una etiqueta: no se modelan montos por método.
const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentMixed PaymentMethod = "mixed"
	PaymentDebt  PaymentMethod = "debt"
)

// Valid indica si la forma de pago pertenece al catálogo cerrado.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMixed, PaymentDebt:
		return true
	}
	return false
}

// Sale cabecera de una venta. Inmutable una vez confirmada.
// Invariante: TotalCents = SubtotalCents - DiscountCents + TaxCents, 0 <= DiscountCents <= SubtotalCents.
type Sale struct {
	ID            int64
	TransactionID string
	CustomerID    *int64
	SaleDate      time.Time
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
	PaymentMethod PaymentMethod
	Note          string
}

// SaleItem línea de venta con los datos del producto copiados al momento de vender.
type SaleItem struct {
	ID             int64
	SaleID         int64
	ProductID      int64
	ProductName    string
	Barcode        string
	UnitPriceCents int64
	CostCents      int64
	Quantity       decimal.Decimal
	LineTotalCents int64
	ProfitCents    int64
}

// Payment cobro registrado contra una venta que no es a crédito.
type Payment struct {
	ID          int64
	SaleID      int64
	Method      PaymentMethod
	AmountCents int64
	CreatedAt   time.Time
}

// LineTotal calcula precio × cantidad redondeado a centavos enteros.
func LineTotal(unitPriceCents int64, qty decimal.Decimal) int64 {
	return decimal.NewFromInt(unitPriceCents).Mul(qty).Round(0).IntPart()
}

// ChargedCents reparte el descuento de la venta entre sus líneas en proporción a cada
// total de línea (mayor resto) y devuelve lo efectivamente cobrado por línea, en el
// mismo orden. La suma del resultado es Σ lineTotals − discount.
func ChargedCents(lineTotals []int64, discountCents int64) []int64 {
	out := make([]int64, len(lineTotals))
	copy(out, lineTotals)
	var subtotal int64
	for _, lt := range lineTotals {
		subtotal += lt
	}
	if discountCents <= 0 || subtotal <= 0 {
		return out
	}
	discountCents = min(discountCents, subtotal)

	total := decimal.NewFromInt(subtotal)
	rems := make([]decimal.Decimal, len(lineTotals))
	var assigned int64
	for i, lt := range lineTotals {
		q, r := decimal.NewFromInt(discountCents).Mul(decimal.NewFromInt(lt)).QuoRem(total, 0)
		share := q.IntPart()
		out[i] -= share
		rems[i] = r
		assigned += share
	}
	for left := discountCents - assigned; left > 0; left-- {
		best := -1
		for i := range rems {
			if out[i] <= 0 {
				continue
			}
			if best < 0 || rems[i].GreaterThan(rems[best]) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		out[best]--
		rems[best] = decimal.Zero
	}
	return out
}
