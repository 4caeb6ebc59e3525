package lattice

// Structure is the minimal crystal-structure view the indexer needs: a
// direct cell from which the reciprocal lattice can be derived.
type Structure struct {
	// Cell is the direct-space lattice. Nil means the structure carries
	// no lattice information.
	Cell *Lattice

	// Name is an optional phase label carried through to results.
	Name string
}

// NewStructure creates a structure around the given direct cell.
func NewStructure(name string, cell *Lattice) *Structure {
	return &Structure{Cell: cell, Name: name}
}

// ReciprocalLattice derives the crystallographic reciprocal lattice of the
// structure's cell. A structure without a usable cell fails with
// *ErrStructure.
func (s *Structure) ReciprocalLattice() (*Lattice, error) {
	if s == nil || s.Cell == nil {
		return nil, &ErrStructure{Reason: "structure has no lattice"}
	}
	return s.Cell.Reciprocal()
}
