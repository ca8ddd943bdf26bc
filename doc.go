// Package atomstore provides an in-memory storage engine for molecular
// structure data.
//
// A Group holds a fixed-size collection of atoms, a dynamic set of typed
// per-atom attribute columns (names, charges, user-defined fields), a stack
// of coordinate sets with one active set, and a canonical bond topology.
// Derived state — the serial-number reverse lookup and the per-set spatial
// index — is built lazily on first use and invalidated by explicit version
// counters at the mutation site.
//
// # Quick Start
//
//	g := atomstore.NewGroup("water")
//	_ = g.SetCoords([]float64{
//	    0.00, 0.00, 0.00,
//	    0.96, 0.00, 0.00,
//	    -0.24, 0.93, 0.00,
//	})
//	_ = g.SetData("names", field.Strings([]string{"O", "H1", "H2"}))
//	_ = g.SetBonds([]bond.Pair{{I: 0, J: 1}, {I: 0, J: 2}})
//
// Subsets are exposed through non-owning views that read through to the
// owning group:
//
//	sel, _ := g.Select([]int{0, 2}, "O and H2")
//	xyz := sel.Coords() // gathered copy, never shared storage
//
// Trajectory-style data uses the coordinate-set stack:
//
//	_ = g.AddCoordset(frame2, "frame 2")
//	_ = g.SetACSIndex(1)
//	xyz = g.Coords() // active set
//
// # Ownership
//
// Views (Atom, Selection, Bond) hold a plain back-reference to their group
// and own no payload. Any mutation to the group observed through one view is
// immediately visible through all others. The group assumes exclusive
// single-owner mutation; callers embedding it in a concurrent host must
// serialize access externally.
package atomstore
