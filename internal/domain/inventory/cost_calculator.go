package inventory

import "github.com/shopspring/decimal"

// WeightedCostCents implementa el costo promedio ponderado (servicio de dominio) en centavos.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock resultante no es positivo se toma el costo de la entrada.
func WeightedCostCents(stockActual decimal.Decimal, costoActual int64, cantEntrada decimal.Decimal, costoEntrada int64) int64 {
	if stockActual.IsNegative() {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoEntrada
	}
	num := stockActual.Mul(decimal.NewFromInt(costoActual)).Add(cantEntrada.Mul(decimal.NewFromInt(costoEntrada)))
	return num.Div(sum).Round(0).IntPart()
}
