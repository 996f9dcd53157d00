package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations, so operators can write "5s" instead of
// nanosecond integers.
type StructuredJSONConfig struct {
	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Sync struct {
		ClusteringEnabled bool     `json:"clustering_enabled"`
		ClusteringDelay   Duration `json:"clustering_delay"`
		ChangeLimit       int      `json:"change_limit"`
	} `json:"sync,omitempty"`

	Scroll struct {
		MaxConcurrent    int64    `json:"max_concurrent"`
		MaxBatchSize     int      `json:"max_batch_size"`
		DefaultKeepAlive Duration `json:"default_keep_alive"`
		SweepInterval    Duration `json:"sweep_interval"`
	} `json:"scroll,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Sync: Sync{
			ClusteringEnabled: jsonCfg.Sync.ClusteringEnabled,
			ClusteringDelay:   time.Duration(jsonCfg.Sync.ClusteringDelay),
			ChangeLimit:       jsonCfg.Sync.ChangeLimit,
		},
		Scroll: Scroll{
			MaxConcurrent:    jsonCfg.Scroll.MaxConcurrent,
			MaxBatchSize:     jsonCfg.Scroll.MaxBatchSize,
			DefaultKeepAlive: time.Duration(jsonCfg.Scroll.DefaultKeepAlive),
			SweepInterval:    time.Duration(jsonCfg.Scroll.SweepInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
