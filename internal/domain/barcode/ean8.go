// Package barcode: códigos EAN-8 internos para productos sin código de fábrica.
// Carga útil de 7 dígitos derivada del ID del producto + dígito verificador módulo 10
// con pesos 3,1,3,1,3,1,3 (de izquierda a derecha).
package barcode

import (
	"fmt"
	"strings"
)

const (
	payloadDigits = 7
	payloadSpace  = 10_000_000
)

// CheckDigit calcula el dígito verificador EAN de una carga de 7 dígitos.
func CheckDigit(payload string) (int, error) {
	if len(payload) != payloadDigits {
		return 0, fmt.Errorf("barcode: la carga debe tener %d dígitos, tiene %d", payloadDigits, len(payload))
	}
	sum := 0
	for i, r := range payload {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("barcode: carácter no numérico %q", r)
		}
		d := int(r - '0')
		if i%2 == 0 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10, nil
}

// Generate devuelve el EAN-8 determinista para el producto y la semilla dada.
// La semilla se incrementa cuando el código ya está en uso.
func Generate(productID int64, seed int) string {
	n := (productID + int64(seed)) % payloadSpace
	if n < 0 {
		n += payloadSpace
	}
	payload := fmt.Sprintf("%07d", n)
	check, _ := CheckDigit(payload)
	return payload + fmt.Sprint(check)
}

// Valid indica si code es un EAN-8 con dígito verificador correcto.
func Valid(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != payloadDigits+1 {
		return false
	}
	check, err := CheckDigit(code[:payloadDigits])
	if err != nil {
		return false
	}
	return int(code[payloadDigits]-'0') == check
}
