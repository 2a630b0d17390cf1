package models

import "testing"

func TestParseAnimalStatus(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"active", "dead", "realized"} {
		status, err := ParseAnimalStatus(value)
		if err != nil {
			t.Fatalf("ParseAnimalStatus(%q) returned error: %v", value, err)
		}
		if string(status) != value {
			t.Fatalf("ParseAnimalStatus(%q) = %q", value, status)
		}
	}

	for _, value := range []string{"", "Active", "culled", "unknown"} {
		if _, err := ParseAnimalStatus(value); err == nil {
			t.Fatalf("expected error for status %q", value)
		}
	}
}

func TestAnimalStatusTerminal(t *testing.T) {
	t.Parallel()

	if StatusActive.Terminal() {
		t.Fatal("active must not be terminal")
	}
	if !StatusDead.Terminal() || !StatusRealized.Terminal() {
		t.Fatal("dead and realized must be terminal")
	}
}

func TestParseDeathReason(t *testing.T) {
	t.Parallel()

	for _, reason := range DeathReasons {
		parsed, err := ParseDeathReason(string(reason))
		if err != nil {
			t.Fatalf("ParseDeathReason(%q) returned error: %v", reason, err)
		}
		if parsed != reason {
			t.Fatalf("ParseDeathReason(%q) = %q", reason, parsed)
		}
	}

	if _, err := ParseDeathReason("Old Age"); err == nil {
		t.Fatal("expected error for unlisted death reason")
	}
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	if _, err := ParseSeverity("Medium"); err != nil {
		t.Fatalf("expected Medium to parse: %v", err)
	}
	if _, err := ParseSeverity("urgent"); err == nil {
		t.Fatal("expected error for unknown severity")
	}
}

func TestAnimalLotIDDerivedThroughPen(t *testing.T) {
	t.Parallel()

	animal := Animal{}
	if animal.LotID() != nil {
		t.Fatal("unpenned animal must have no lot")
	}

	lotID := uint(7)
	animal.Pen = &Pen{PenNumber: "P001", LotID: &lotID}
	if got := animal.LotID(); got == nil || *got != lotID {
		t.Fatalf("expected lot %d, got %v", lotID, got)
	}

	animal.Pen = &Pen{PenNumber: "Hospital"}
	if animal.LotID() != nil {
		t.Fatal("lot-independent pen must yield no lot")
	}
}
