package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Comandas-api/pkg/money"
)

// menuRow una fila de la carta: categoria;producto;precio;ingredientes
type menuRow struct {
	Category    string
	Name        string
	Price       decimal.Decimal
	Ingredients string
}

// decodeMenu convierte a UTF-8 los archivos exportados en ISO-8859-1 (Excel en Windows).
func decodeMenu(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

// parseMenu lee el CSV separado por ';'. La primera fila es el encabezado.
// Las filas sin nombre de producto se ignoran.
func parseMenu(r io.Reader) ([]menuRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []menuRow
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 3 columnas", line)
		}
		name := strings.TrimSpace(rec[1])
		if name == "" {
			continue
		}
		category := strings.TrimSpace(rec[0])
		if category == "" {
			return nil, fmt.Errorf("línea %d: %s sin categoría", line, name)
		}
		price, err := money.Parse(rec[2])
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row := menuRow{Category: category, Name: name, Price: price}
		if len(rec) > 3 {
			row.Ingredients = strings.TrimSpace(rec[3])
		}
		rows = append(rows, row)
	}
	return rows, nil
}
