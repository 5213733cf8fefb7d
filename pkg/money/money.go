package money

import "github.com/shopspring/decimal"

// MinorUnitsPerUnit количество центов в единице валюты
const MinorUnitsPerUnit = 100

// FromMinor переводит сумму в центах в отображаемые единицы (5000 -> 50.00)
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// ToMinor переводит отображаемую сумму в центы с банковским округлением
func ToMinor(d decimal.Decimal) int64 {
	return d.Shift(2).RoundBank(0).IntPart()
}

// Format форматирует сумму в центах с двумя знаками после запятой
func Format(minor int64) string {
	return FromMinor(minor).StringFixed(2)
}

// FormatDecimal форматирует сумму в отображаемых единицах с двумя знаками
func FormatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}
