// Package vector defines the data model for diffraction-vector analysis:
// single vectors, per-position lists and the ragged navigation grid of a
// scanning-diffraction dataset.
package vector
