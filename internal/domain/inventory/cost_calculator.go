// Package inventory contiene servicios de dominio de inventario sin estado.
package inventory

import "github.com/shopspring/decimal"

// CostCalculator costo promedio ponderado tras una entrada de mercancía o insumo.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock resultante no es positivo se conserva el costo de la entrada.
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoEntrada
	}
	if stockActual.LessThanOrEqual(decimal.Zero) {
		return costoEntrada
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}

// BatchUnitCost costo unitario de un lote de producción: costo consumido / unidades producidas.
func BatchUnitCost(consumed decimal.Decimal, outputQty int64) decimal.Decimal {
	if outputQty <= 0 {
		return decimal.Zero
	}
	return consumed.Div(decimal.NewFromInt(outputQty)).Round(4)
}
