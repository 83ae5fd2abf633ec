package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/caja-pos/internal/domain"
	"github.com/jhoicas/caja-pos/internal/domain/entity"
	"github.com/jhoicas/caja-pos/internal/domain/repository"
)

var _ repository.PrintJobRepository = (*PrintJobRepo)(nil)

// PrintJobRepo implementación del puerto PrintJobRepository sobre SQLite.
type PrintJobRepo struct {
	q Querier
}

// NewPrintJobRepository construye el adaptador de persistencia para trabajos de impresión.
func NewPrintJobRepository(q Querier) *PrintJobRepo {
	return &PrintJobRepo{q: q}
}

const printJobColumns = `id, kind, product_id, sale_id, return_id, copies, printer_name, status, payload, error, created_at, updated_at, finished_at`

// Create encola el trabajo en estado queued.
func (r *PrintJobRepo) Create(ctx context.Context, j *entity.PrintJob) error {
	j.Status = entity.PrintJobQueued
	if j.Copies < 1 {
		j.Copies = 1
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	j.UpdatedAt = j.CreatedAt
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO print_jobs (kind, product_id, sale_id, return_id, copies, printer_name, status, payload, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)`,
		string(j.Kind), nullInt64(j.ProductID), nullInt64(j.SaleID), nullInt64(j.ReturnID), j.Copies,
		j.PrinterName, string(j.Status), j.Payload, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return wrap("insert print job", err)
	}
	if j.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert print job: %w", err)
	}
	return nil
}

// Finish registra el estado terminal del trabajo. Solo se admite queued -> done|failed.
func (r *PrintJobRepo) Finish(ctx context.Context, j *entity.PrintJob) error {
	if !j.Status.Terminal() {
		return fmt.Errorf("finish print job: estado %q no es terminal: %w", j.Status, domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE print_jobs SET status = ?, error = ?, updated_at = ?, finished_at = ?
		WHERE id = ? AND status = ?`,
		string(j.Status), j.Error, now, now, j.ID, string(entity.PrintJobQueued),
	)
	if err != nil {
		return wrap("finish print job", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish print job: %w", err)
	}
	if n == 0 {
		cur, err := r.GetByID(ctx, j.ID)
		if err != nil {
			return err
		}
		if cur == nil {
			return fmt.Errorf("finish print job: trabajo: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("finish print job: trabajo ya finalizado (%s): %w", cur.Status, domain.ErrInvalidInput)
	}
	j.UpdatedAt = now
	j.FinishedAt = &now
	return nil
}

// GetByID obtiene un trabajo por ID.
func (r *PrintJobRepo) GetByID(ctx context.Context, id int64) (*entity.PrintJob, error) {
	j, err := scanPrintJob(r.q.QueryRowContext(ctx, `SELECT `+printJobColumns+` FROM print_jobs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get print job", err)
	}
	return j, nil
}

// List devuelve los trabajos, el más reciente primero. limit <= 0 no limita.
func (r *PrintJobRepo) List(ctx context.Context, limit, offset int) ([]*entity.PrintJob, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+printJobColumns+` FROM print_jobs
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, wrap("list print jobs", err)
	}
	defer rows.Close()
	var list []*entity.PrintJob
	for rows.Next() {
		j, err := scanPrintJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan print job: %w", err)
		}
		list = append(list, j)
	}
	return list, rows.Err()
}

func scanPrintJob(s scanner) (*entity.PrintJob, error) {
	var (
		j                     entity.PrintJob
		product, sale, retRef sql.NullInt64
		kind, status          string
		finished              sql.NullTime
	)
	if err := s.Scan(&j.ID, &kind, &product, &sale, &retRef, &j.Copies, &j.PrinterName, &status,
		&j.Payload, &j.Error, &j.CreatedAt, &j.UpdatedAt, &finished); err != nil {
		return nil, err
	}
	j.Kind = entity.PrintJobKind(kind)
	j.Status = entity.PrintJobStatus(status)
	j.ProductID, j.SaleID, j.ReturnID = int64Ptr(product), int64Ptr(sale), int64Ptr(retRef)
	if finished.Valid {
		t := finished.Time
		j.FinishedAt = &t
	}
	return &j, nil
}
