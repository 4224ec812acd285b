// Package money formatea y lee montos en pesos colombianos para pantallas y recibos.
package money

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Symbol prefijo de moneda usado en la representación de pantalla.
const Symbol = "$"

const decimalSep = ","

var printer = message.NewPrinter(language.MustParse("es-CO"))

// Format devuelve el monto con separadores locales y dos decimales, ej. "$ 25.000,00".
func Format(d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	cents := fixed[strings.IndexByte(fixed, '.')+1:]
	return sign + Symbol + " " + printer.Sprint(number.Decimal(d.IntPart())) + decimalSep + cents
}

// Parse interpreta un monto en formato de pantalla ("$ 25.000,00", "25000.5", "-$ 3,10").
// El último separador seguido de uno o dos dígitos se toma como separador decimal; el resto
// se considera agrupación de miles.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")

	var digits []rune
	decimalAt := -1
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits = append(digits, r)
		case r == ',' || r == '.':
			decimalAt = len(digits)
			digits = append(digits, '.')
		}
	}
	if len(digits) == 0 {
		return decimal.Zero, fmt.Errorf("money: monto vacío: %q", s)
	}

	var b strings.Builder
	for i, r := range digits {
		if r != '.' {
			b.WriteRune(r)
			continue
		}
		frac := len(digits) - i - 1
		if i == decimalAt && frac > 0 && frac <= 2 {
			b.WriteRune('.')
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("money: monto inválido %q: %w", s, err)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
