// Package config loads analysis pipeline configuration from YAML.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Cell describes a crystal unit cell by its lattice parameters. Lengths
// in angstroms, angles in degrees.
type Cell struct {
	Name  string  `yaml:"name"`
	A     float64 `yaml:"a"`
	B     float64 `yaml:"b"`
	C     float64 `yaml:"c"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
	Gamma float64 `yaml:"gamma"`
}

// Reduce holds unique-vector reduction settings.
type Reduce struct {
	// DistanceThreshold is the merge distance for duplicate vectors, in
	// reciprocal angstroms.
	DistanceThreshold float64 `yaml:"distance_threshold"`
}

// Cluster holds DBSCAN settings.
type Cluster struct {
	Eps        float64 `yaml:"eps"`
	MinSamples int     `yaml:"min_samples"`
}

// Index holds lattice indexation settings.
type Index struct {
	MagnitudeThreshold float64  `yaml:"magnitude_threshold"`
	AngularThreshold   *float64 `yaml:"angular_threshold,omitempty"`
	MaximumLength      float64  `yaml:"maximum_length"`
	Cell               Cell     `yaml:"cell"`
}

// Storage holds snapshot and catalog locations.
type Storage struct {
	// Backend selects where snapshots live: "local" (default), "minio"
	// or "s3".
	Backend string `yaml:"backend"`
	// Root is the blobstore directory for the local backend.
	Root string `yaml:"root"`
	// Bucket is the object-store bucket for the minio and s3 backends.
	Bucket string `yaml:"bucket"`
	// Prefix is prepended to all object keys.
	Prefix string `yaml:"prefix"`
	// Endpoint is the minio server address (host:port). Credentials come
	// from the environment.
	Endpoint string `yaml:"endpoint"`
	// UseSSL enables TLS for the minio backend.
	UseSSL bool `yaml:"use_ssl"`
	// IOLimitBytesPerSec caps object-store transfer throughput.
	// 0 means unlimited.
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
	// CatalogPath is the SQLite run catalog file.
	CatalogPath string `yaml:"catalog_path"`
	// Compression selects snapshot compression: "none", "lz4" or "zstd".
	Compression string `yaml:"compression"`
}

// Config is the full pipeline configuration.
type Config struct {
	Workers int     `yaml:"workers"`
	Reduce  Reduce  `yaml:"reduce"`
	Cluster Cluster `yaml:"cluster"`
	Index   Index   `yaml:"index"`
	Storage Storage `yaml:"storage"`
}

// Default returns the configuration used when a field is absent.
func Default() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		Reduce:  Reduce{DistanceThreshold: 0.01},
		Cluster: Cluster{Eps: 0.05, MinSamples: 2},
		Index: Index{
			MagnitudeThreshold: 0.002,
			MaximumLength:      1,
		},
		Storage: Storage{
			Backend:     "local",
			Root:        "diffvec-data",
			CatalogPath: "diffvec-data/runs.db",
			Compression: "zstd",
		},
	}
}

// Load reads a YAML configuration file, applying defaults for absent
// fields.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes, applying defaults for absent
// fields.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Reduce.DistanceThreshold < 0 {
		return fmt.Errorf("reduce.distance_threshold must be >= 0, got %v", c.Reduce.DistanceThreshold)
	}
	if c.Cluster.Eps <= 0 {
		return fmt.Errorf("cluster.eps must be > 0, got %v", c.Cluster.Eps)
	}
	if c.Cluster.MinSamples < 1 {
		return fmt.Errorf("cluster.min_samples must be >= 1, got %d", c.Cluster.MinSamples)
	}
	if c.Index.MagnitudeThreshold < 0 {
		return fmt.Errorf("index.magnitude_threshold must be >= 0, got %v", c.Index.MagnitudeThreshold)
	}
	if c.Index.MaximumLength <= 0 {
		return fmt.Errorf("index.maximum_length must be > 0, got %v", c.Index.MaximumLength)
	}
	switch c.Storage.Compression {
	case "none", "lz4", "zstd":
	default:
		return fmt.Errorf("storage.compression must be none, lz4 or zstd, got %q", c.Storage.Compression)
	}
	switch c.Storage.Backend {
	case "", "local":
	case "minio":
		if c.Storage.Endpoint == "" {
			return fmt.Errorf("storage.endpoint is required for the minio backend")
		}
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the minio backend")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("storage.backend must be local, minio or s3, got %q", c.Storage.Backend)
	}
	if c.Storage.IOLimitBytesPerSec < 0 {
		return fmt.Errorf("storage.io_limit_bytes_per_sec must be >= 0, got %d", c.Storage.IOLimitBytesPerSec)
	}
	return nil
}
