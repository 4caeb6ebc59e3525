package commands

import (
	"fmt"
	"os"

	"github.com/stemtools/diffvec/codec"
	"github.com/stemtools/diffvec/snapshot"
	"github.com/stemtools/diffvec/vector"
)

// gridFile is the on-disk JSON layout of a vector grid.
type gridFile struct {
	Rows  int           `json:"rows"`
	Cols  int           `json:"cols"`
	Lists [][][]float64 `json:"lists"`
}

// loadGrid reads a vector grid from a JSON file.
func loadGrid(path string) (*vector.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grid: %w", err)
	}

	var f gridFile
	if err := (codec.JSON{}).Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse grid %s: %w", path, err)
	}

	lists := make([]vector.List, len(f.Lists))
	for i, raw := range f.Lists {
		l := make(vector.List, len(raw))
		for j, components := range raw {
			l[j] = vector.Vector(components)
		}
		lists[i] = l
	}
	return vector.NewGrid(f.Rows, f.Cols, lists)
}

// snapshotCompression maps the config string to a compression type.
func snapshotCompression(name string) snapshot.Compression {
	switch name {
	case "none":
		return snapshot.CompressionNone
	case "lz4":
		return snapshot.CompressionLZ4
	default:
		return snapshot.CompressionZSTD
	}
}
