// internal/platform/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"kirwada/internal/core/ports"
)

// Config es la configuración completa construida en arranque y pasada
// explícitamente a dispatcher, units y exporters. Sin estado global mutable.
type Config struct {
	// Core
	Query        string
	Kind         string
	Unit         string // vacío = todas las units aplicables
	Workers      int
	UnitTimeoutS int // segundos, timeout por unit
	Interactive  bool
	PrintVersion bool
	ListUnits    bool

	// IO
	OutputDir string
	Formats   []string // formatos de exportación a emitir
	Pretty    bool
	NoSummary bool // desactivar tabla resumen en terminal

	// Units: mapa dinámico de configuraciones por unit
	Units map[string]ports.UnitConfig

	// CredentialsFile ruta del store read-only de secretos
	CredentialsFile string
}

// fileConfig es el esquema YAML del archivo de configuración opcional.
type fileConfig struct {
	Workers      int      `yaml:"workers"`
	UnitTimeoutS int      `yaml:"unit_timeout_seconds"`
	OutputDir    string   `yaml:"output_dir"`
	Formats      []string `yaml:"formats"`
	Credentials  string   `yaml:"credentials_file"`

	Units map[string]fileUnitConfig `yaml:"units"`
}

type fileUnitConfig struct {
	Enabled        *bool             `yaml:"enabled"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	RateLimit      float64           `yaml:"rate_limit"`
	APIKeyName     string            `yaml:"api_key_name"`
	Custom         map[string]string `yaml:"custom"`
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		UnitTimeoutS: 30,
		OutputDir:    "kirwada_out",
		Formats:      []string{"json"},
		Pretty:       true,

		Units: map[string]ports.UnitConfig{
			"dnslookup":  defaultUnit(0),
			"whois":      defaultUnit(0),
			"emailcheck": defaultUnit(0),
			"hibp":       defaultUnitWithKey("hibp", 1.5),
			"ipinfo":     defaultUnit(2.0),
			"phonenum":   defaultUnit(0),
			"namehunt":   defaultUnit(4.0),
			"webpage":    defaultUnit(0),
		},

		CredentialsFile: "credentials.yaml",
	}
}

func defaultUnit(rateLimit float64) ports.UnitConfig {
	cfg := ports.DefaultUnitConfig()
	cfg.RateLimit = rateLimit
	return cfg
}

func defaultUnitWithKey(keyName string, rateLimit float64) ports.UnitConfig {
	cfg := defaultUnit(rateLimit)
	cfg.APIKeyName = keyName
	return cfg
}

// Load inicializa la configuración: defaults -> archivo YAML opcional ->
// ENV -> flags (los flags tienen prioridad).
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	// Localizar archivo de config antes de montar el resto
	path := configFilePath(args)
	if path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	normalize(&cfg)
	return cfg, nil
}

// configFilePath busca --config en args o KIRWADA_CONFIG en el entorno.
func configFilePath(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return getenv("KIRWADA_CONFIG", "")
}

// loadFromFile fusiona el archivo YAML sobre los defaults.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if fc.UnitTimeoutS > 0 {
		cfg.UnitTimeoutS = fc.UnitTimeoutS
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if len(fc.Formats) > 0 {
		cfg.Formats = fc.Formats
	}
	if fc.Credentials != "" {
		cfg.CredentialsFile = fc.Credentials
	}

	for name, fu := range fc.Units {
		unitCfg, ok := cfg.Units[name]
		if !ok {
			unitCfg = ports.DefaultUnitConfig()
		}
		if fu.Enabled != nil {
			unitCfg.Enabled = *fu.Enabled
		}
		if fu.TimeoutSeconds > 0 {
			unitCfg.Timeout = time.Duration(fu.TimeoutSeconds) * time.Second
		}
		if fu.RateLimit > 0 {
			unitCfg.RateLimit = fu.RateLimit
		}
		if fu.APIKeyName != "" {
			unitCfg.APIKeyName = fu.APIKeyName
		}
		for k, v := range fu.Custom {
			if unitCfg.Custom == nil {
				unitCfg.Custom = make(map[string]string)
			}
			unitCfg.Custom[k] = v
		}
		cfg.Units[name] = unitCfg
	}

	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("KIRWADA_WORKERS", ""); v != "" {
		cfg.Workers = parseInt(v, cfg.Workers)
	}
	if v := getenv("KIRWADA_UNIT_TIMEOUT", ""); v != "" {
		cfg.UnitTimeoutS = parseInt(v, cfg.UnitTimeoutS)
	}
	if v := getenv("KIRWADA_OUTPUT_DIR", ""); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("KIRWADA_FORMATS", ""); v != "" {
		cfg.Formats = splitList(v)
	}
	if v := getenv("KIRWADA_CREDENTIALS", ""); v != "" {
		cfg.CredentialsFile = v
	}

	// Units desde ENV
	// Formato: KIRWADA_UNITS_HIBP_ENABLED=false
	//          KIRWADA_UNITS_HIBP_TIMEOUT=60
	//          KIRWADA_UNITS_HIBP_RATELIMIT=1.5
	for name := range cfg.Units {
		prefix := fmt.Sprintf("KIRWADA_UNITS_%s_", strings.ToUpper(name))

		unitCfg := cfg.Units[name]
		if v := getenv(prefix+"ENABLED", ""); v != "" {
			unitCfg.Enabled = parseBool(v)
		}
		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			unitCfg.Timeout = time.Duration(parseInt(v, int(unitCfg.Timeout.Seconds()))) * time.Second
		}
		if v := getenv(prefix+"RATELIMIT", ""); v != "" {
			unitCfg.RateLimit = parseFloat(v, unitCfg.RateLimit)
		}
		cfg.Units[name] = unitCfg
	}
}

// loadFromFlags parsea flags de CLI con pflag.
func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("kirwada", pflag.ContinueOnError)

	fs.StringVarP(&cfg.Query, "query", "q", cfg.Query, "Consulta a despachar (vacío = modo interactivo)")
	fs.StringVarP(&cfg.Kind, "kind", "k", cfg.Kind, "Kind de la consulta (username|email|domain|url|phone|ip)")
	fs.StringVarP(&cfg.Unit, "unit", "u", cfg.Unit, "Ejecutar solo esta unit")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Concurrencia máxima de units")
	fs.IntVar(&cfg.UnitTimeoutS, "unit-timeout", cfg.UnitTimeoutS, "Timeout por unit en segundos")

	fs.StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "Directorio de salida")
	fs.StringSliceVarP(&cfg.Formats, "format", "f", cfg.Formats, "Formatos de exportación (json,csv,sqlite,html,all)")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "Formatear JSON para legibilidad")
	fs.BoolVar(&cfg.NoSummary, "no-summary", cfg.NoSummary, "Desactivar tabla resumen en terminal")

	fs.StringVar(&cfg.CredentialsFile, "credentials", cfg.CredentialsFile, "Archivo YAML de credenciales")
	fs.String("config", "", "Archivo YAML de configuración")
	fs.BoolVar(&cfg.PrintVersion, "version", false, "Imprimir versión y salir")
	fs.BoolVar(&cfg.ListUnits, "list-units", false, "Listar units registradas y salir")

	// Units habilitables por flag: registrados sobre temporales y volcados
	// al mapa tras Parse.
	unitEnabled := make(map[string]*bool, len(cfg.Units))
	for name := range cfg.Units {
		unitEnabled[name] = fs.Bool("unit."+name, cfg.Units[name].Enabled,
			fmt.Sprintf("Habilitar unit %s", name))
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	for name, enabled := range unitEnabled {
		unitCfg := cfg.Units[name]
		unitCfg.Enabled = *enabled
		cfg.Units[name] = unitCfg
	}
	return nil
}

func normalize(c *Config) {
	c.Query = strings.TrimSpace(c.Query)
	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.UnitTimeoutS < 1 {
		c.UnitTimeoutS = 30
	}
	if c.OutputDir == "" {
		c.OutputDir = "kirwada_out"
	}

	// "all" expande a todos los formatos
	for _, f := range c.Formats {
		if strings.EqualFold(f, "all") {
			c.Formats = []string{"json", "csv", "sqlite", "html"}
			break
		}
	}

	// Sin query explícita, el shell entra en modo interactivo
	c.Interactive = c.Query == ""
}

// UnitTimeout devuelve el timeout por unit como time.Duration.
func (c Config) UnitTimeout() time.Duration {
	return time.Duration(c.UnitTimeoutS) * time.Second
}

// Redacted retorna una copia para logging: nunca expone rutas de
// credenciales resueltas ni valores Custom que puedan contener secretos.
func (c Config) Redacted() map[string]any {
	return map[string]any{
		"workers":      c.Workers,
		"unit_timeout": c.UnitTimeoutS,
		"output_dir":   c.OutputDir,
		"formats":      strings.Join(c.Formats, ","),
		"units":        len(c.Units),
	}
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
