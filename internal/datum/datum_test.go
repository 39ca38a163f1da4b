package datum

import "testing"

func TestNewNumberRange(t *testing.T) {
	if _, err := NewNumber(999); err != nil {
		t.Errorf("999 should be valid: %v", err)
	}
	if _, err := NewNumber(-999); err != nil {
		t.Errorf("-999 should be valid: %v", err)
	}
	if _, err := NewNumber(1000); err == nil {
		t.Error("1000 should overflow")
	}
	if _, err := NewNumber(-1000); err == nil {
		t.Error("-1000 should overflow")
	}
}

func TestSubLetterYieldsNumber(t *testing.T) {
	a, _ := NewLetter('D')
	b, _ := NewLetter('A')
	got, err := Sub(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := NewNumber(3)
	if !Equal(got, want) {
		t.Errorf("'D' - 'A' = %v, want %v", got, want)
	}
}

func TestAddRejectsLetters(t *testing.T) {
	a, _ := NewLetter('A')
	b, _ := NewNumber(1)
	if _, err := Add(a, b); err == nil {
		t.Error("Add with a letter operand should fail")
	}
}

func TestSubMixedKindsRejected(t *testing.T) {
	n, _ := NewNumber(1)
	l, _ := NewLetter('A')
	if _, err := Sub(n, l); err == nil {
		t.Error("Number - Letter should fail")
	}
	if _, err := Sub(l, n); err == nil {
		t.Error("Letter - Number should fail")
	}
}

func TestFloorEmptyTileIsNil(t *testing.T) {
	f := NewFloor(4)
	tile, err := f.Get(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tile != nil {
		t.Errorf("fresh floor tile should be nil, got %v", tile)
	}
}

func TestFloorBounds(t *testing.T) {
	f := NewFloor(4)
	if _, err := f.Get(4); err == nil {
		t.Error("Get(4) on a 4-tile floor should fail")
	}
	if err := f.Set(-1, nil); err == nil {
		t.Error("Set(-1, ...) should fail")
	}
}

func TestFloorCloneIndependence(t *testing.T) {
	f := NewFloor(2)
	n, _ := NewNumber(7)
	_ = f.Set(0, n)
	clone := f.Clone()
	zero, _ := NewNumber(0)
	_ = f.Set(0, zero)

	got, _ := clone.Get(0)
	if !Equal(got, n) {
		t.Errorf("mutating original affected clone: clone[0] = %v, want %v", got, n)
	}
}

func TestBumpBoundary(t *testing.T) {
	max, _ := NewNumber(999)
	if _, err := Bump(max, 1); err == nil {
		t.Error("bumping 999 up should overflow")
	}
}
