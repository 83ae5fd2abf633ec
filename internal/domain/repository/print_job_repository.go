package repository

import (
	"context"

	"github.com/jhoicas/caja-pos/internal/domain/entity"
)

// PrintJobRepository cola y bitácora de trabajos de impresión (nunca se borran filas).
type PrintJobRepository interface {
	Create(ctx context.Context, job *entity.PrintJob) error
	// Finish pasa el trabajo a un estado terminal; falla si ya no estaba en queued.
	Finish(ctx context.Context, job *entity.PrintJob) error
	GetByID(ctx context.Context, id int64) (*entity.PrintJob, error)
	List(ctx context.Context, limit, offset int) ([]*entity.PrintJob, error)
}
