package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
workers: 4
reduce:
  distance_threshold: 0.02
cluster:
  eps: 0.1
  min_samples: 3
index:
  magnitude_threshold: 0.005
  angular_threshold: 0.1
  maximum_length: 1.5
  cell:
    name: gold
    a: 4.078
    b: 4.078
    c: 4.078
    alpha: 90
    beta: 90
    gamma: 90
storage:
  root: /tmp/gold
  catalog_path: /tmp/gold/runs.db
  compression: lz4
`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 0.02, cfg.Reduce.DistanceThreshold)
	assert.Equal(t, 0.1, cfg.Cluster.Eps)
	assert.Equal(t, 3, cfg.Cluster.MinSamples)
	assert.Equal(t, 0.005, cfg.Index.MagnitudeThreshold)
	require.NotNil(t, cfg.Index.AngularThreshold)
	assert.Equal(t, 0.1, *cfg.Index.AngularThreshold)
	assert.Equal(t, "gold", cfg.Index.Cell.Name)
	assert.Equal(t, 4.078, cfg.Index.Cell.A)
	assert.Equal(t, "lz4", cfg.Storage.Compression)
}

func TestParseKeepsDefaultsForAbsentFields(t *testing.T) {
	cfg, err := Parse([]byte(`
reduce:
  distance_threshold: 0.03
`))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, 0.03, cfg.Reduce.DistanceThreshold)
	assert.Equal(t, def.Cluster, cfg.Cluster)
	assert.Equal(t, def.Index.MagnitudeThreshold, cfg.Index.MagnitudeThreshold)
	assert.Nil(t, cfg.Index.AngularThreshold)
	assert.Equal(t, def.Storage, cfg.Storage)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"NegativeWorkers":      "workers: -1",
		"NegativeThreshold":    "reduce:\n  distance_threshold: -0.1",
		"ZeroEps":              "cluster:\n  eps: 0",
		"ZeroMinSamples":       "cluster:\n  min_samples: 0",
		"NegativeMagnitude":    "index:\n  magnitude_threshold: -1",
		"BadCompression":       "storage:\n  compression: gzip",
		"BadBackend":           "storage:\n  backend: ftp",
		"MinioWithoutEndpoint": "storage:\n  backend: minio\n  bucket: b",
		"MinioWithoutBucket":   "storage:\n  backend: minio\n  endpoint: localhost:9000",
		"S3WithoutBucket":      "storage:\n  backend: s3",
		"NegativeIOLimit":      "storage:\n  io_limit_bytes_per_sec: -1",
		"NotYAML":              "reduce: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestParseObjectStoreBackend(t *testing.T) {
	cfg, err := Parse([]byte(`
storage:
  backend: minio
  endpoint: localhost:9000
  bucket: snapshots
  prefix: diffvec
  io_limit_bytes_per_sec: 1048576
`))
	require.NoError(t, err)

	assert.Equal(t, "minio", cfg.Storage.Backend)
	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, "snapshots", cfg.Storage.Bucket)
	assert.Equal(t, int64(1<<20), cfg.Storage.IOLimitBytesPerSec)
}

func TestParseAllowsZeroMagnitudeThreshold(t *testing.T) {
	cfg, err := Parse([]byte("index:\n  magnitude_threshold: 0"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Index.MagnitudeThreshold)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
