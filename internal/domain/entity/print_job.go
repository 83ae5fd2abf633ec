package entity

import "time"

// PrintJobKind tipo de trabajo de impresión.
type PrintJobKind string

// Tipos de trabajo.
const (
	PrintJobBarcode PrintJobKind = "barcode"
	PrintJobReceipt PrintJobKind = "receipt"
)

// Valid indica si el tipo pertenece al catálogo cerrado.
func (k PrintJobKind) Valid() bool {
	return k == PrintJobBarcode || k == PrintJobReceipt
}

// PrintJobStatus estado del trabajo. Done y Failed son terminales.
type PrintJobStatus string

// Estados del trabajo.
const (
	PrintJobQueued PrintJobStatus = "queued"
	PrintJobDone   PrintJobStatus = "done"
	PrintJobFailed PrintJobStatus = "failed"
)

// Valid indica si el estado pertenece al catálogo cerrado.
func (s PrintJobStatus) Valid() bool {
	switch s {
	case PrintJobQueued, PrintJobDone, PrintJobFailed:
		return true
	}
	return false
}

// Terminal indica si el estado ya no admite transiciones.
func (s PrintJobStatus) Terminal() bool {
	return s == PrintJobDone || s == PrintJobFailed
}

// PrintJob cola y bitácora de impresiones. Nunca se borra; solo se inserta y cambia de estado.
type PrintJob struct {
	ID          int64
	Kind        PrintJobKind
	ProductID   *int64
	SaleID      *int64
	ReturnID    *int64
	Copies      int
	PrinterName string
	Status      PrintJobStatus
	Payload     string // argumentos enviados al ejecutable, serializados en JSON
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FinishedAt  *time.Time
}
