package field

import "testing"

func TestArrayLenAndDims(t *testing.T) {
	tests := []struct {
		name     string
		arr      *Array
		wantLen  int
		wantDims int
		wantKind Kind
	}{
		{name: "flat ints", arr: Ints([]int64{1, 2, 3}), wantLen: 3, wantDims: 1, wantKind: KindInt},
		{name: "flat bools", arr: Bools([]bool{true, false}), wantLen: 2, wantDims: 1, wantKind: KindBool},
		{name: "flat floats", arr: Floats([]float64{1.5}), wantLen: 1, wantDims: 1, wantKind: KindFloat},
		{name: "flat strings", arr: Strings([]string{"a", "b"}), wantLen: 2, wantDims: 1, wantKind: KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.arr.Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
			if got := tt.arr.Dims(); got != tt.wantDims {
				t.Errorf("Dims() = %d, want %d", got, tt.wantDims)
			}
			if got := tt.arr.Kind(); got != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestArray2D(t *testing.T) {
	arr, err := Floats2D([]float64{1, 2, 3, 4, 5, 6}, 3)
	if err != nil {
		t.Fatalf("Floats2D() error: %v", err)
	}
	if arr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", arr.Len())
	}
	if arr.Dims() != 2 {
		t.Errorf("Dims() = %d, want 2", arr.Dims())
	}

	if _, err := Floats2D([]float64{1, 2, 3, 4}, 3); err == nil {
		t.Error("Floats2D() with ragged length should fail")
	}
}

func TestArrayCloneIsIndependent(t *testing.T) {
	orig := Ints([]int64{1, 2, 3})
	clone := orig.Clone()
	clone.IntSlice()[0] = 99
	if orig.IntSlice()[0] != 1 {
		t.Error("mutating a clone must not affect the original")
	}
	if !orig.Equal(Ints([]int64{1, 2, 3})) {
		t.Error("original changed after clone mutation")
	}
}

func TestArraySelect(t *testing.T) {
	arr := Strings([]string{"a", "b", "c", "d"})
	got := arr.Select([]int{3, 1})
	want := Strings([]string{"d", "b"})
	if !got.Equal(want) {
		t.Errorf("Select() = %v, want %v", got.StringSlice(), want.StringSlice())
	}

	wide, _ := Floats2D([]float64{0, 0, 0, 1, 1, 1, 2, 2, 2}, 3)
	gotWide := wide.Select([]int{2, 0})
	wantWide, _ := Floats2D([]float64{2, 2, 2, 0, 0, 0}, 3)
	if !gotWide.Equal(wantWide) {
		t.Errorf("Select() on 2-D column = %v, want %v", gotWide.FloatSlice(), wantWide.FloatSlice())
	}
}

func TestArraySetRows(t *testing.T) {
	arr := Ints([]int64{0, 0, 0, 0})
	if err := arr.SetRows([]int{1, 3}, Ints([]int64{7, 9})); err != nil {
		t.Fatalf("SetRows() error: %v", err)
	}
	if !arr.Equal(Ints([]int64{0, 7, 0, 9})) {
		t.Errorf("SetRows() result = %v", arr.IntSlice())
	}

	if err := arr.SetRows([]int{0}, Strings([]string{"x"})); err == nil {
		t.Error("SetRows() with mismatched kind should fail")
	}
	if err := arr.SetRows([]int{0, 1}, Ints([]int64{1})); err == nil {
		t.Error("SetRows() with mismatched row count should fail")
	}
}

func TestArrayConcat(t *testing.T) {
	a := Floats([]float64{1, 2})
	b := Floats([]float64{3})
	got, err := a.Concat(b)
	if err != nil {
		t.Fatalf("Concat() error: %v", err)
	}
	if !got.Equal(Floats([]float64{1, 2, 3})) {
		t.Errorf("Concat() = %v", got.FloatSlice())
	}

	if _, err := a.Concat(Ints([]int64{1})); err == nil {
		t.Error("Concat() with mismatched kinds should fail")
	}
}

func TestZerosLike(t *testing.T) {
	proto, _ := Ints2D([]int64{1, 2, 3, 4}, 2)
	got := ZerosLike(proto, 3)
	if got.Len() != 3 || got.Width() != 2 || got.Kind() != KindInt {
		t.Errorf("ZerosLike() = len %d width %d kind %v", got.Len(), got.Width(), got.Kind())
	}
	for _, v := range got.IntSlice() {
		if v != 0 {
			t.Error("ZerosLike() must be zero-valued")
		}
	}
}

func TestConvert(t *testing.T) {
	ints := Ints([]int64{1, 2})
	got, ok := ints.Convert(KindFloat)
	if !ok {
		t.Fatal("int to float promotion should succeed")
	}
	if !got.Equal(Floats([]float64{1, 2})) {
		t.Errorf("Convert() = %v", got.FloatSlice())
	}

	if _, ok := Strings([]string{"a"}).Convert(KindInt); ok {
		t.Error("string to int conversion should fail")
	}
	if _, ok := Floats([]float64{1}).Convert(KindInt); ok {
		t.Error("float to int narrowing should fail")
	}
}
