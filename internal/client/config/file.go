package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/couplespace/internal/flagx"
	"github.com/dmitrijs2005/couplespace/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of Config.
type FileConfig struct {
	DatabasePath       string         `json:"database_path" yaml:"database_path"`
	OutputDir          string         `json:"output_dir" yaml:"output_dir"`
	Timezone           string         `json:"timezone" yaml:"timezone"`
	Locale             string         `json:"locale" yaml:"locale"`
	ServerEndpointAddr string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	AccessToken        string         `json:"access_token" yaml:"access_token"`
	RequestTimeout     timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. Keys missing
// from the file leave cfg untouched; read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&cfg.DatabasePath:       fc.DatabasePath,
		&cfg.OutputDir:          fc.OutputDir,
		&cfg.Timezone:           fc.Timezone,
		&cfg.Locale:             fc.Locale,
		&cfg.ServerEndpointAddr: fc.ServerEndpointAddr,
		&cfg.AccessToken:        fc.AccessToken,
		&cfg.LogLevel:           fc.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
}
