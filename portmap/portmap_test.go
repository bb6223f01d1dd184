package portmap

import (
	"testing"

	"switchcore/errcode"
)

func TestLookupResolvesAllFourPorts(t *testing.T) {
	cases := []struct {
		name string
		want Offset
	}{
		{"f0", F0}, {"f1", F1}, {"f2", F2}, {"f3", F3},
	}
	for _, c := range cases {
		got, err := Lookup(c.name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("Lookup(%q) = %#x, want %#x", c.name, got, c.want)
		}
	}
}

func TestLookupRejectsUnknownName(t *testing.T) {
	_, err := Lookup("f9")
	if err == nil {
		t.Fatal("Lookup(f9) should fail")
	}
	if errcode.Of(err) != errcode.OutOfRangeInput {
		t.Errorf("errcode.Of(err) = %v, want OutOfRangeInput", errcode.Of(err))
	}
}

func TestNameRoundTripsWithLookup(t *testing.T) {
	for _, name := range []string{"f0", "f1", "f2", "f3"} {
		off, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if got := Name(off); got != name {
			t.Errorf("Name(Lookup(%q)) = %q, want %q", name, got, name)
		}
	}
}

func TestNameReturnsExpansionForUnknownOffset(t *testing.T) {
	if got := Name(Offset(0x99)); got != "expansion" {
		t.Errorf("Name(0x99) = %q, want %q", got, "expansion")
	}
}
