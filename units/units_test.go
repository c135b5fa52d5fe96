package units

import "testing"

func TestLengthScale(t *testing.T) {
	cases := []struct {
		name    string
		want    float64
		wantErr bool
	}{
		{"m", 1.0, false},
		{"meters", 1.0, false},
		{"km", 1000.0, false},
		{"Kilometers", 1000.0, false},
		{"ft", 0.3048, false},
		{"feet", 0.3048, false},
		{"furlong", 0, true},
	}

	for _, c := range cases {
		got, err := LengthScale(c.name)
		if c.wantErr {
			if err == nil {
				t.Errorf("LengthScale(%q): expected error, got nil", c.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("LengthScale(%q): unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("LengthScale(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestStringToList(t *testing.T) {
	got := StringToList("[a, b, c]", ",")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStringToListEmpty(t *testing.T) {
	got := StringToList("", ",")
	if got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestStringToFloatList(t *testing.T) {
	got, err := StringToFloatList("1.0, 2.5, -3", ",")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1.0, 2.5, -3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStringToIntListError(t *testing.T) {
	if _, err := StringToIntList("1, two, 3", ","); err == nil {
		t.Error("expected parse error")
	}
}
