package util

import "fmt"

const (
	decimalValue  = 100
	thousandValue = 1000
)

// FormatAmount renders cents with the default separators, e.g. 1234567 -> "12,345.67".
func FormatAmount(cents int64) string {
	return FormatMoney(cents, ",", ".")
}

func FormatMoney(value int64, thousand, decimal string) string {
	var result string
	var isNegative bool

	if value < 0 {
		value *= -1
		isNegative = true
	}

	result = fmt.Sprintf("%s%02d", decimal, value%decimalValue)
	value /= decimalValue

	for value >= thousandValue {
		result = fmt.Sprintf("%s%03d%s", thousand, value%thousandValue, result)
		value /= thousandValue
	}

	if isNegative {
		return fmt.Sprintf("-%d%s", value, result)
	}

	return fmt.Sprintf("%d%s", value, result)
}
