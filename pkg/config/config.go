package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	Admin AdminConfig
	Print PrintConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración del archivo SQLite embebido.
type DBConfig struct {
	Path          string // ":memory:" para pruebas
	BusyTimeoutMS int
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AdminConfig credenciales del administrador que se crea si no hay usuarios.
type AdminConfig struct {
	Username string
	Password string
}

// PrintConfig ubicación de los ejecutables de impresión y datos del ticket.
type PrintConfig struct {
	LabelBin           string // ruta explícita al ejecutable de etiquetas (opcional)
	ReceiptBin         string // ruta explícita al ejecutable de tickets (opcional)
	BinDir             string
	ResourcesDir       string
	ReceiptHeading     string
	BarcodeMaxAttempts int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_PATH, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "caja-pos"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Path:          getString(v, "DB_PATH", defaultDBPath()),
			BusyTimeoutMS: getInt(v, "DB_BUSY_TIMEOUT_MS", 5000),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "caja-pos"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Admin: AdminConfig{
			Username: getString(v, "ADMIN_USERNAME", "admin"),
			Password: getString(v, "ADMIN_PASSWORD", ""),
		},
		Print: PrintConfig{
			LabelBin:           getString(v, "PRINT_LABEL_BIN", ""),
			ReceiptBin:         getString(v, "PRINT_RECEIPT_BIN", ""),
			BinDir:             getString(v, "PRINT_BIN_DIR", ""),
			ResourcesDir:       getString(v, "PRINT_RESOURCES_DIR", ""),
			ReceiptHeading:     getString(v, "RECEIPT_HEADING", "Recibo"),
			BarcodeMaxAttempts: getInt(v, "BARCODE_MAX_ATTEMPTS", 50),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio")
	}
	if cfg.DB.BusyTimeoutMS < 0 {
		return nil, fmt.Errorf("DB_BUSY_TIMEOUT_MS inválido: %d", cfg.DB.BusyTimeoutMS)
	}
	if cfg.Print.BarcodeMaxAttempts < 1 {
		cfg.Print.BarcodeMaxAttempts = 1
	}
	return cfg, nil
}

// defaultDBPath ubica la base en el directorio de configuración del usuario.
func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "pos.db"
	}
	return filepath.Join(dir, "caja-pos", "pos.db")
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
