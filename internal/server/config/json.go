package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/finledger/finledger/internal/flagx"
	"github.com/finledger/finledger/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "2h" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr string         `json:"endpoint_addr"`
	DatabaseDSN  string         `json:"database_dsn"`
	SessionTTL   timex.Duration `json:"session_ttl"`
	ReapInterval timex.Duration `json:"reap_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or invalid
// file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	config.ReapInterval = time.Duration(c.ReapInterval.Duration)
}
