package convert

import "testing"

func TestSoftwareBassPeriodShiftsOutTwoBits(t *testing.T) {
	period, ok := softwareBassPeriod(4000)
	if !ok {
		t.Fatal("expected 4000>>2=1000 to fit in 10 bits")
	}
	if period != 1000 {
		t.Fatalf("got %d, want 1000", period)
	}
}

func TestSoftwareBassPeriodRejectsOutOfRange(t *testing.T) {
	if _, ok := softwareBassPeriod(0); ok {
		t.Fatal("period 0 should not be representable")
	}
	if _, ok := softwareBassPeriod(1); ok {
		// 1>>2 == 0, still out of range.
		t.Fatal("period 1 shifts to 0, should not be representable")
	}
}
