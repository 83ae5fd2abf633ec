package dto

import "time"

// PrintLabelRequest body para POST /api/print/label.
type PrintLabelRequest struct {
	ProductID   int64  `json:"product_id"`
	Copies      int    `json:"copies"`
	PrinterName string `json:"printer_name"`
}

// PrintReceiptRequest body para POST /api/print/receipt.
type PrintReceiptRequest struct {
	SaleID      int64  `json:"sale_id"`
	PrinterName string `json:"printer_name"`
}

// PrintReturnReceiptRequest body para POST /api/print/return-receipt.
type PrintReturnReceiptRequest struct {
	ReturnID    int64  `json:"return_id"`
	PrinterName string `json:"printer_name"`
}

// PrintJobResponse salida de un trabajo de impresión.
type PrintJobResponse struct {
	ID          int64      `json:"id"`
	Kind        string     `json:"kind"`
	ProductID   *int64     `json:"product_id,omitempty"`
	SaleID      *int64     `json:"sale_id,omitempty"`
	ReturnID    *int64     `json:"return_id,omitempty"`
	Copies      int        `json:"copies"`
	PrinterName string     `json:"printer_name"`
	Status      string     `json:"status"`
	Payload     string     `json:"payload"`
	Error       string     `json:"error,omitempty"`
	Barcode     string     `json:"barcode,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// PrintJobListResponse historial paginado de impresiones.
type PrintJobListResponse struct {
	Items []PrintJobResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// PrintErrorResponse error de impresión junto con el trabajo que quedó en failed.
type PrintErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Job     *PrintJobResponse `json:"job,omitempty"`
}
