package atomstore_test

import (
	"fmt"
	"log"

	"github.com/molkit/atomstore"
	"github.com/molkit/atomstore/bond"
	"github.com/molkit/atomstore/field"
)

// Example_basic demonstrates building a group with coordinates, fields, and
// bonds.
func Example_basic() {
	g := atomstore.NewGroup("water")

	// Coordinates are flat row-major xyz triples; the first assignment fixes
	// the atom count.
	err := g.SetCoords([]float64{
		0.00, 0.00, 0.00,
		0.96, 0.00, 0.00,
		-0.24, 0.93, 0.00,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := g.SetData("names", field.Strings([]string{"O", "H1", "H2"})); err != nil {
		log.Fatal(err)
	}
	if err := g.SetBonds([]bond.Pair{{I: 0, J: 1}, {I: 0, J: 2}}); err != nil {
		log.Fatal(err)
	}

	fmt.Println(g.NumAtoms(), "atoms,", g.NumBonds(), "bonds")
	// Output: 3 atoms, 2 bonds
}

// Example_selection demonstrates non-owning views over atom indices.
func Example_selection() {
	g := atomstore.NewGroup("water")
	_ = g.SetCoords(make([]float64, 9))
	_ = g.SetData("names", field.Strings([]string{"O", "H1", "H2"}))

	sel, err := g.Select([]int{1, 2}, "hydrogens")
	if err != nil {
		log.Fatal(err)
	}

	// Writes through a view land in the owning group.
	_ = sel.SetData("names", field.Strings([]string{"HA", "HB"}))
	fmt.Println(g.GetData("names").StringSlice())
	// Output: [O HA HB]
}

// Example_coordsets demonstrates the multi-snapshot coordinate stack.
func Example_coordsets() {
	g := atomstore.NewGroup("trajectory")
	_ = g.SetCoords([]float64{0, 0, 0})
	_ = g.AddCoordset([]float64{1, 0, 0}, "frame 2")

	_ = g.SetACSIndex(1)
	fmt.Println(g.ACSLabel(), g.Coords())
	// Output: frame 2 [1 0 0]
}

// Example_serials demonstrates lookup by external serial number.
func Example_serials() {
	g := atomstore.NewGroup("g")
	_ = g.SetCoords(make([]float64, 9))
	_ = g.SetData("serials", field.Ints([]int64{10, 5, 7}))

	a, err := g.GetBySerial(7)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("serial 7 is atom", a.Index())
	// Output: serial 7 is atom 2
}
