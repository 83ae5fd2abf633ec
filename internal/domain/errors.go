package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInUse             = errors.New("recurso referenciado por otros registros")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrOverReturn        = errors.New("cantidad devuelta supera la vendida")
	ErrMissingCustomer   = errors.New("la venta a crédito requiere cliente")
	ErrBinaryNotFound    = errors.New("ejecutable de impresión no encontrado")
	ErrExternalProcess   = errors.New("falló el proceso externo de impresión")
	ErrGenerationFailed  = errors.New("no se pudo generar un código de barras único")
	ErrStoreUnavailable  = errors.New("almacenamiento no disponible")
)

// Variantes que siguen coincidiendo con su categoría general vía errors.Is.
var (
	ErrEmptyCart      = fmt.Errorf("%w: carrito vacío", ErrInvalidInput)
	ErrReturnNotFound = fmt.Errorf("%w: venta o línea a devolver", ErrNotFound)
)
