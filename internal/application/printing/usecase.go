package printing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/caja-pos/internal/application/dto"
	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/barcode"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

// MaxCopies límite de copias por trabajo de etiquetas.
const MaxCopies = 500

// Resolver ubica un ejecutable externo por nombre base.
type Resolver interface {
	Resolve(name string) (string, error)
}

// Config parámetros del motor de impresión.
type Config struct {
	ReceiptHeading     string
	BarcodeMaxAttempts int
}

// PrintUseCase motor de trabajos de impresión. Cada trabajo se encola (queued) en una
// transacción corta, se invoca el ejecutable sin tener ninguna transacción abierta y se
// cierra en otra transacción corta como done o failed. No hay reintentos: volver a
// imprimir crea un trabajo nuevo.
type PrintUseCase struct {
	txRunner repository.TxRunner
	repos    repository.Repos
	resolver Resolver
	runner   ProcessRunner
	cfg      Config
	log      zerolog.Logger
}

// NewPrintUseCase construye el caso de uso.
func NewPrintUseCase(txRunner repository.TxRunner, repos repository.Repos, resolver Resolver, runner ProcessRunner, cfg Config, log zerolog.Logger) *PrintUseCase {
	if cfg.BarcodeMaxAttempts < 1 {
		cfg.BarcodeMaxAttempts = 1
	}
	return &PrintUseCase{txRunner: txRunner, repos: repos, resolver: resolver, runner: runner, cfg: cfg, log: log}
}

type jobPayload struct {
	Args   []string `json:"args"`
	Copies int      `json:"copies"`
}

// PrintLabel imprime copies etiquetas del producto. Si el producto no tiene código de
// barras se le asigna un EAN-8 único antes de encolar.
// Ante un fallo de impresión devuelve el trabajo (failed) junto con el error.
func (uc *PrintUseCase) PrintLabel(ctx context.Context, in dto.PrintLabelRequest) (*dto.PrintJobResponse, error) {
	copies := in.Copies
	if copies == 0 {
		copies = 1
	}
	if copies < 1 || copies > MaxCopies {
		return nil, fmt.Errorf("%w: copias debe estar entre 1 y %d", domain.ErrInvalidInput, MaxCopies)
	}

	var (
		job  *entity.PrintJob
		code string
		args []string
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		p, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producto %d: %w", in.ProductID, domain.ErrNotFound)
		}
		code = p.Barcode
		if code == "" {
			if code, err = uc.assignBarcode(ctx, r, p.ID); err != nil {
				return err
			}
		}
		args = LabelArgs(in.PrinterName, code, p.Name)
		job = &entity.PrintJob{
			Kind:        entity.PrintJobBarcode,
			ProductID:   &p.ID,
			Copies:      copies,
			PrinterName: in.PrinterName,
			Payload:     encodePayload(args, copies),
		}
		return r.PrintJobs.Create(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	runErr := uc.execute(ctx, LabelBinary, args, copies)
	out, err := uc.finish(ctx, job, runErr)
	if out != nil {
		out.Barcode = code
	}
	return out, err
}

// PrintReceipt imprime el ticket de la venta.
func (uc *PrintUseCase) PrintReceipt(ctx context.Context, in dto.PrintReceiptRequest) (*dto.PrintJobResponse, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, in.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("venta %d: %w", in.SaleID, domain.ErrNotFound)
	}
	items, err := uc.repos.Sales.GetItems(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	receipt := Receipt{
		Heading:       fmt.Sprintf("%s - Venta #%d", uc.cfg.ReceiptHeading, sale.ID),
		SubtotalCents: sale.SubtotalCents,
		DiscountCents: sale.DiscountCents,
		TotalCents:    sale.TotalCents,
		PaymentType:   string(sale.PaymentMethod),
	}
	for _, it := range items {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			Name:           it.ProductName,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			LineTotalCents: it.LineTotalCents,
		})
	}
	return uc.printReceipt(ctx, receipt, in.PrinterName, &sale.ID, nil)
}

// PrintReturnReceipt imprime el comprobante de una devolución.
func (uc *PrintUseCase) PrintReturnReceipt(ctx context.Context, in dto.PrintReturnReceiptRequest) (*dto.PrintJobResponse, error) {
	ret, err := uc.repos.Returns.GetByID(ctx, in.ReturnID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, fmt.Errorf("devolución %d: %w", in.ReturnID, domain.ErrNotFound)
	}
	saleItems, err := uc.repos.Sales.GetItems(ctx, ret.SaleID)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(saleItems))
	for _, it := range saleItems {
		names[it.ID] = it.ProductName
	}
	receipt := Receipt{
		Heading:       fmt.Sprintf("%s - Devolucion #%d (venta #%d)", uc.cfg.ReceiptHeading, ret.ID, ret.SaleID),
		SubtotalCents: ret.TotalCents,
		TotalCents:    ret.TotalCents,
		PaymentType:   returnPaymentType(ret),
	}
	for _, it := range ret.Items {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			Name:           names[it.SaleItemID],
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			LineTotalCents: it.LineTotalCents,
		})
	}
	return uc.printReceipt(ctx, receipt, in.PrinterName, &ret.SaleID, &ret.ID)
}

// ListJobs historial de trabajos, el más reciente primero.
func (uc *PrintUseCase) ListJobs(ctx context.Context, limit, offset int) (*dto.PrintJobListResponse, error) {
	list, err := uc.repos.PrintJobs.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PrintJobResponse, 0, len(list))
	for _, j := range list {
		items = append(items, *toPrintJobResponse(j))
	}
	return &dto.PrintJobListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (uc *PrintUseCase) printReceipt(ctx context.Context, receipt Receipt, printerName string, saleID, returnID *int64) (*dto.PrintJobResponse, error) {
	args := receipt.Args(printerName)
	job := &entity.PrintJob{
		Kind:        entity.PrintJobReceipt,
		SaleID:      saleID,
		ReturnID:    returnID,
		Copies:      1,
		PrinterName: printerName,
		Payload:     encodePayload(args, 1),
	}
	if err := uc.repos.PrintJobs.Create(ctx, job); err != nil {
		return nil, err
	}
	runErr := uc.execute(ctx, ReceiptBinary, args, 1)
	return uc.finish(ctx, job, runErr)
}

// assignBarcode genera el EAN-8 del producto probando semillas crecientes hasta
// encontrar uno libre. El índice único de la tabla respalda la verificación.
func (uc *PrintUseCase) assignBarcode(ctx context.Context, r repository.Repos, productID int64) (string, error) {
	for seed := 0; seed < uc.cfg.BarcodeMaxAttempts; seed++ {
		code := barcode.Generate(productID, seed)
		exists, err := r.Products.BarcodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}
		if err := r.Products.SetBarcode(ctx, productID, code); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return "", err
		}
		uc.log.Info().Int64("product_id", productID).Str("barcode", code).Int("seed", seed).Msg("código de barras asignado")
		return code, nil
	}
	return "", fmt.Errorf("%w: producto %d tras %d intentos", domain.ErrGenerationFailed, productID, uc.cfg.BarcodeMaxAttempts)
}

// execute resuelve el ejecutable e invoca una vez por copia; se detiene en el primer fallo.
func (uc *PrintUseCase) execute(ctx context.Context, name string, args []string, copies int) error {
	bin, err := uc.resolver.Resolve(name)
	if err != nil {
		return err
	}
	for i := 0; i < copies; i++ {
		if err := uc.runner.Run(ctx, bin, args); err != nil {
			if !errors.Is(err, domain.ErrExternalProcess) {
				err = fmt.Errorf("%w: %w", domain.ErrExternalProcess, err)
			}
			return fmt.Errorf("copia %d de %d: %w", i+1, copies, err)
		}
	}
	return nil
}

// finish lleva el trabajo a su estado terminal. Usa un contexto sin cancelación para
// que un cliente que se desconecta no deje el trabajo en queued.
func (uc *PrintUseCase) finish(ctx context.Context, job *entity.PrintJob, runErr error) (*dto.PrintJobResponse, error) {
	job.Status = entity.PrintJobDone
	if runErr != nil {
		job.Status = entity.PrintJobFailed
		job.Error = runErr.Error()
	}
	if err := uc.repos.PrintJobs.Finish(context.WithoutCancel(ctx), job); err != nil {
		uc.log.Error().Err(err).Int64("job_id", job.ID).Msg("no se pudo cerrar el trabajo de impresión")
		return nil, errors.Join(runErr, err)
	}
	if runErr != nil {
		uc.log.Error().Err(runErr).Int64("job_id", job.ID).Str("kind", string(job.Kind)).Msg("impresión fallida")
		return toPrintJobResponse(job), runErr
	}
	uc.log.Info().Int64("job_id", job.ID).Str("kind", string(job.Kind)).Int("copies", job.Copies).Msg("impresión completada")
	return toPrintJobResponse(job), nil
}

func returnPaymentType(ret *entity.SaleReturn) string {
	var parts []string
	if ret.RefundMethod != nil && ret.RefundCents > 0 {
		parts = append(parts, string(*ret.RefundMethod))
	}
	if ret.DebtReducedCents > 0 {
		parts = append(parts, string(entity.PaymentDebt))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

func encodePayload(args []string, copies int) string {
	b, err := json.Marshal(jobPayload{Args: args, Copies: copies})
	if err != nil {
		return strings.Join(args, " ")
	}
	return string(b)
}

func toPrintJobResponse(j *entity.PrintJob) *dto.PrintJobResponse {
	return &dto.PrintJobResponse{
		ID:          j.ID,
		Kind:        string(j.Kind),
		ProductID:   j.ProductID,
		SaleID:      j.SaleID,
		ReturnID:    j.ReturnID,
		Copies:      j.Copies,
		PrinterName: j.PrinterName,
		Status:      string(j.Status),
		Payload:     j.Payload,
		Error:       j.Error,
		CreatedAt:   j.CreatedAt,
		FinishedAt:  j.FinishedAt,
	}
}
