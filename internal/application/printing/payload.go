package printing

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ReceiptLine una fila del ticket.
type ReceiptLine struct {
	Name           string
	Quantity       decimal.Decimal
	UnitPriceCents int64
	LineTotalCents int64
}

// Receipt contenido posicional que recibe el ejecutable de tickets.
type Receipt struct {
	Heading       string
	Lines         []ReceiptLine
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
	PaymentType   string
}

// Args arma [printerName, heading, items, subtotal, discount, total, paymentType].
func (r Receipt) Args(printerName string) []string {
	return []string{
		printerName,
		CleanText(r.Heading),
		ItemsString(r.Lines),
		FormatCents(r.SubtotalCents),
		FormatCents(r.DiscountCents),
		FormatCents(r.TotalCents),
		CleanText(r.PaymentType),
	}
}

// LabelArgs arma [printerName, barcode, productName] para el ejecutable de etiquetas.
func LabelArgs(printerName, barcode, productName string) []string {
	return []string{printerName, barcode, CleanText(productName)}
}

// ItemsString serializa las líneas como name|qty|unitPrice|lineTotal unidas por ';'.
func ItemsString(lines []ReceiptLine) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, strings.Join([]string{
			CleanText(l.Name),
			l.Quantity.String(),
			FormatCents(l.UnitPriceCents),
			FormatCents(l.LineTotalCents),
		}, "|"))
	}
	return strings.Join(parts, ";")
}

// FormatCents expresa centavos en unidades mayores con dos decimales (12345 -> "123.45").
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

var separators = strings.NewReplacer("|", "", ";", "", "\r", " ", "\n", " ")

// CleanText pasa el texto libre a ASCII plano (sin tildes) y quita los separadores
// de campo para que no se pueda inyectar una columna o fila extra.
func CleanText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(separators.Replace(folded))
}
