package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/jhoicas/caja-pos/internal/domain"
)

// Nombres base de los ejecutables externos.
const (
	LabelBinary   = "label-printer"
	ReceiptBinary = "receipt-printer"
)

// ResolverConfig ubicaciones donde buscar los ejecutables. Los campos vacíos se omiten.
type ResolverConfig struct {
	LabelBin     string // ruta explícita, tiene prioridad
	ReceiptBin   string // ruta explícita, tiene prioridad
	BinDir       string // instalación empaquetada
	ResourcesDir string // recursos de la app empaquetada (<dir>/bin)
	ExeDir       string // directorio del binario del servidor; "" = os.Executable
	WorkDir      string // layout de desarrollo (<dir>/bin); "" = os.Getwd
}

// BinaryResolver encuentra el ejecutable probando una lista ordenada de candidatos.
type BinaryResolver struct {
	cfg ResolverConfig
}

// NewBinaryResolver construye el resolver completando ExeDir y WorkDir si faltan.
func NewBinaryResolver(cfg ResolverConfig) *BinaryResolver {
	if cfg.ExeDir == "" {
		if exe, err := os.Executable(); err == nil {
			cfg.ExeDir = filepath.Dir(exe)
		}
	}
	if cfg.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.WorkDir = wd
		}
	}
	return &BinaryResolver{cfg: cfg}
}

// Candidates devuelve las rutas a probar para name, en orden de prioridad.
func (r *BinaryResolver) Candidates(name string) []string {
	var out []string
	switch name {
	case LabelBinary:
		if r.cfg.LabelBin != "" {
			out = append(out, r.cfg.LabelBin)
		}
	case ReceiptBinary:
		if r.cfg.ReceiptBin != "" {
			out = append(out, r.cfg.ReceiptBin)
		}
	}
	var dirs []string
	if r.cfg.BinDir != "" {
		dirs = append(dirs, r.cfg.BinDir)
	}
	if r.cfg.ResourcesDir != "" {
		dirs = append(dirs, filepath.Join(r.cfg.ResourcesDir, "bin"))
	}
	if r.cfg.ExeDir != "" {
		dirs = append(dirs, filepath.Join(r.cfg.ExeDir, "resources", "bin"), r.cfg.ExeDir)
	}
	if r.cfg.WorkDir != "" {
		dirs = append(dirs, filepath.Join(r.cfg.WorkDir, "bin"))
	}
	for _, d := range dirs {
		for _, f := range fileNames(name) {
			out = append(out, filepath.Join(d, f))
		}
	}
	return out
}

// Resolve devuelve el primer candidato que existe como archivo regular.
// Si ninguno existe falla con ErrBinaryNotFound listando todas las rutas probadas.
func (r *BinaryResolver) Resolve(name string) (string, error) {
	tried := r.Candidates(name)
	for _, p := range tried {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s (probado: %s)", domain.ErrBinaryNotFound, name, strings.Join(tried, ", "))
}

func fileNames(name string) []string {
	if runtime.GOOS == "windows" {
		return []string{name + ".exe", name}
	}
	return []string{name}
}
