// internal/platform/config/credentials.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileCredentials es un store read-only de secretos respaldado por un
// archivo YAML. Los valores nunca se loguean ni se reexportan: solo las
// units los consultan en el momento de uso.
//
// Esquema:
//
//	hibp:
//	  api_key: "..."
//	ipinfo:
//	  token: "..."
type FileCredentials struct {
	mu       sync.RWMutex
	services map[string]map[string]string
}

// LoadCredentials carga el archivo de credenciales. Un archivo ausente no
// es error: retorna un store vacío (las units que requieren auth se
// saltan en despacho).
func LoadCredentials(path string) (*FileCredentials, error) {
	fc := &FileCredentials{services: make(map[string]map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return nil, err
	}

	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	for service, keys := range raw {
		service = strings.ToLower(strings.TrimSpace(service))
		if service == "" {
			continue
		}
		fc.services[service] = make(map[string]string, len(keys))
		for k, v := range keys {
			fc.services[service][strings.ToLower(strings.TrimSpace(k))] = v
		}
	}

	return fc, nil
}

// Credential devuelve el secreto para (service, key). Consulta primero el
// archivo y luego la variable de entorno KIRWADA_CRED_<SERVICE>_<KEY>,
// para que CI pueda inyectar secretos sin tocar disco.
func (f *FileCredentials) Credential(service, key string) (string, bool) {
	service = strings.ToLower(strings.TrimSpace(service))
	key = strings.ToLower(strings.TrimSpace(key))

	f.mu.RLock()
	if keys, ok := f.services[service]; ok {
		if v, ok := keys[key]; ok && v != "" {
			f.mu.RUnlock()
			return v, true
		}
	}
	f.mu.RUnlock()

	envKey := "KIRWADA_CRED_" + strings.ToUpper(service) + "_" + strings.ToUpper(key)
	if v := os.Getenv(envKey); v != "" {
		return v, true
	}
	return "", false
}

// Services lista los servicios con credenciales cargadas. Solo expone
// nombres, nunca valores.
func (f *FileCredentials) Services() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.services))
	for s := range f.services {
		out = append(out, s)
	}
	return out
}

// credentialsTemplate es el esqueleto escrito por BootstrapCredentials.
const credentialsTemplate = `# Credenciales de Kirwada (este archivo no se versiona).
# Las units consultan el secreto en el momento de uso; los valores nunca
# se escriben en logs ni en exportaciones.
#
# hibp:
#   api_key: "tu-api-key"
# ipinfo:
#   token: "tu-token"
`

// BootstrapCredentials crea un archivo de credenciales de ejemplo si no
// existe. Retorna true si lo creó.
func BootstrapCredentials(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
	}

	// 0600: el archivo contendrá secretos
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0o600); err != nil {
		return false, err
	}
	return true, nil
}
