package coords

import (
	"math"
	"testing"
)

func TestCheckSet(t *testing.T) {
	tests := []struct {
		name    string
		cs      []float64
		nAtoms  int
		wantN   int
		wantErr bool
	}{
		{name: "valid unset count", cs: make([]float64, 9), nAtoms: 0, wantN: 3},
		{name: "valid matching count", cs: make([]float64, 6), nAtoms: 2, wantN: 2},
		{name: "empty", cs: nil, nAtoms: 0, wantErr: true},
		{name: "not a multiple of 3", cs: make([]float64, 7), nAtoms: 0, wantErr: true},
		{name: "count mismatch", cs: make([]float64, 9), nAtoms: 2, wantErr: true},
		{name: "NaN", cs: []float64{0, math.NaN(), 0}, nAtoms: 0, wantErr: true},
		{name: "Inf", cs: []float64{0, 0, math.Inf(1)}, nAtoms: 0, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := CheckSet(tt.cs, "test", tt.nAtoms)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckSet() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && n != tt.wantN {
				t.Errorf("CheckSet() n = %d, want %d", n, tt.wantN)
			}
		})
	}
}

func TestCheckSetErrorTypes(t *testing.T) {
	_, err := CheckSet(make([]float64, 7), "ctx", 0)
	if _, ok := err.(*ShapeError); !ok {
		t.Errorf("want *ShapeError, got %T", err)
	}

	_, err = CheckSet(make([]float64, 9), "ctx", 2)
	ce, ok := err.(*CountError)
	if !ok {
		t.Fatalf("want *CountError, got %T", err)
	}
	if ce.Want != 2 || ce.Got != 3 {
		t.Errorf("CountError = %+v", ce)
	}

	_, err = CheckSet([]float64{math.NaN(), 0, 0, 0, 0, 0}, "ctx", 0)
	ve, ok := err.(*ValueError)
	if !ok {
		t.Fatalf("want *ValueError, got %T", err)
	}
	if ve.Row != 0 {
		t.Errorf("ValueError.Row = %d, want 0", ve.Row)
	}
}

func TestCheckStack(t *testing.T) {
	n, err := CheckStack([][]float64{make([]float64, 6), make([]float64, 6)}, "stack", 0)
	if err != nil {
		t.Fatalf("CheckStack() error: %v", err)
	}
	if n != 2 {
		t.Errorf("CheckStack() n = %d, want 2", n)
	}

	if _, err := CheckStack(nil, "stack", 0); err == nil {
		t.Error("empty stack must fail")
	}
	if _, err := CheckStack([][]float64{make([]float64, 6), make([]float64, 9)}, "stack", 0); err == nil {
		t.Error("ragged stack must fail")
	}
	if _, err := CheckStack([][]float64{make([]float64, 6)}, "stack", 3); err == nil {
		t.Error("stack not matching a fixed count must fail")
	}
}
