package pricing

import "github.com/shopspring/decimal"

// Пакет pricing содержит чистые функции расчета цен.
// Все суммы округляются до 2 знаков (минорные единицы валюты) по правилу
// round-half-away-from-zero (так работает decimal.Round).
// Налоги не моделируются.

const currencyScale = 2

var oneHundred = decimal.NewFromInt(100)

// UnitSalePrice возвращает цену за единицу с учетом скидки.
// Если скидка задана и больше нуля: price * (1 - discount/100), иначе price.
// Результат никогда не бывает отрицательным.
func UnitSalePrice(price decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	sale := price
	if discount.Valid && discount.Decimal.GreaterThan(decimal.Zero) {
		factor := decimal.NewFromInt(1).Sub(discount.Decimal.Div(oneHundred))
		sale = price.Mul(factor)
	}
	sale = sale.Round(currencyScale)
	if sale.IsNegative() {
		return decimal.Zero
	}
	return sale
}

// LineTotal возвращает стоимость строки: quantity * UnitSalePrice.
// Предполагает валидированный вход (quantity >= 1 проверяется на границе корзины).
func LineTotal(quantity int, price decimal.Decimal, discount decimal.NullDecimal) decimal.Decimal {
	return UnitSalePrice(price, discount).Mul(decimal.NewFromInt(int64(quantity))).Round(currencyScale)
}

// Line — строка заказа для расчета итоговой суммы.
type Line struct {
	Quantity int
	Price    decimal.Decimal
	Discount decimal.NullDecimal
}

// OrderTotal возвращает итоговую сумму заказа: сумма строк плюс стоимость доставки.
func OrderTotal(lines []Line, shippingPrice decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.Quantity, l.Price, l.Discount))
	}
	return total.Add(shippingPrice).Round(currencyScale)
}
