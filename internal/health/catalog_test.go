package health

import "testing"

func TestLookupPanicsOnUnknownType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown metric type")
		}
	}()
	Lookup(MetricType("blood_glucose"))
}

func TestEveryTypeHasCompleteDefinition(t *testing.T) {
	for _, typ := range AllTypes() {
		def := Lookup(typ)
		if def.Type != typ {
			t.Errorf("%s: def.Type = %s", typ, def.Type)
		}
		if def.Unit == "" {
			t.Errorf("%s: missing unit", typ)
		}
		if def.ValidRange.Min >= def.ValidRange.Max {
			t.Errorf("%s: degenerate valid range %+v", typ, def.ValidRange)
		}
		if def.Capability != SourceDevice && def.Capability != SourceManual {
			t.Errorf("%s: capability = %q", typ, def.Capability)
		}
		if def.AllowsManual && def.Capability != SourceDevice {
			t.Errorf("%s: AllowsManual only applies to device metrics", typ)
		}
	}
}

func TestDeviceAndManualTypesPartitionCatalog(t *testing.T) {
	device := DeviceTypes()
	manualTypes := ManualTypes()
	if len(device)+len(manualTypes) != len(AllTypes()) {
		t.Errorf("partition sizes %d + %d != %d", len(device), len(manualTypes), len(AllTypes()))
	}
	for _, typ := range manualTypes {
		if Lookup(typ).Capability != SourceManual {
			t.Errorf("%s listed as manual but capability is %s", typ, Lookup(typ).Capability)
		}
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: 25, Max: 150}
	cases := []struct {
		v    float64
		want bool
	}{
		{25, true},
		{150, true},
		{24.999, false},
		{150.001, false},
		{80, true},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.v); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	if IsValid(TypeRestingHeartRate, 500) {
		t.Error("500 bpm should be invalid")
	}
	if !IsValid(TypeRestingHeartRate, 55) {
		t.Error("55 bpm should be valid")
	}
}

func TestAllTypesReturnsCopy(t *testing.T) {
	first := AllTypes()
	first[0] = MetricType("mutated")
	if AllTypes()[0] == MetricType("mutated") {
		t.Error("AllTypes must not expose internal state")
	}
}

func TestSleepUsesSpecialWindowing(t *testing.T) {
	if MethodFor(TypeSleepHours) != SpecialWindowed {
		t.Errorf("sleep method = %v", MethodFor(TypeSleepHours))
	}
	for _, typ := range AllTypes() {
		if typ != TypeSleepHours && MethodFor(typ) == SpecialWindowed {
			t.Errorf("%s unexpectedly special-windowed", typ)
		}
	}
}
