// Package field provides typed per-atom attribute columns and the static
// registry of built-in attribute fields.
//
// An Array is a fixed-length column whose length on dimension 0 always equals
// the atom count of the owning store. The four supported element kinds are
// bool, int, float, and string. Two-dimensional columns store their rows flat
// with a fixed width.
//
// The Descriptor table drives uniform get/set semantics: a store consults the
// registry on every data access instead of generating one accessor pair per
// field.
package field
