package barcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pos/internal/domain/barcode"
)

// Vector público EAN-8: 9638507 + dígito 4.
func TestCheckDigit_VectorConocido(t *testing.T) {
	d, err := barcode.CheckDigit("9638507")
	require.NoError(t, err)
	assert.Equal(t, 4, d)
	assert.True(t, barcode.Valid("96385074"))
	assert.False(t, barcode.Valid("96385075"))
}

func TestCheckDigit_CargaInvalida(t *testing.T) {
	_, err := barcode.CheckDigit("123")
	assert.Error(t, err)
	_, err = barcode.CheckDigit("12a4567")
	assert.Error(t, err)
}

func TestGenerate_DeterministaYValido(t *testing.T) {
	code := barcode.Generate(42, 0)
	// carga 0000042: 4*1 + 2*3 = 10 -> dígito 0
	assert.Equal(t, "00000420", code)
	assert.True(t, barcode.Valid(code))
	assert.Equal(t, code, barcode.Generate(42, 0), "misma entrada, mismo código")
	assert.NotEqual(t, code, barcode.Generate(42, 1), "otra semilla produce otro código")
}

func TestGenerate_EnvuelveEnSieteDigitos(t *testing.T) {
	code := barcode.Generate(9_999_999, 1)
	assert.Equal(t, "0000000", code[:7])
	assert.True(t, barcode.Valid(code))
}
