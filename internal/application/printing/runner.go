package printing

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jhoicas/caja-pos/internal/domain"
)

// ProcessRunner invoca un ejecutable externo con argumentos posicionales.
type ProcessRunner interface {
	Run(ctx context.Context, bin string, args []string) error
}

// ExecRunner ejecuta el proceso y espera a que termine. Una llamada en curso no se
// cancela con el contexto; el timeout, si existe, es del ejecutable externo.
type ExecRunner struct{}

// NewExecRunner construye el runner basado en os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run devuelve ErrExternalProcess con la salida del proceso si no termina con código 0
// o si no pudo lanzarse.
func (ExecRunner) Run(_ context.Context, bin string, args []string) error {
	cmd := exec.Command(bin, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		text := strings.TrimSpace(out.String())
		if text == "" {
			text = err.Error()
		}
		return &ProcessError{Bin: bin, Output: text, Err: err}
	}
	return nil
}

// ProcessError fallo de un proceso externo con su salida capturada tal cual.
type ProcessError struct {
	Bin    string
	Output string
	Err    error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s: %s", e.Bin, e.Output)
}

// Unwrap permite errors.Is(err, domain.ErrExternalProcess) y llegar al error original.
func (e *ProcessError) Unwrap() []error {
	return []error{domain.ErrExternalProcess, e.Err}
}
