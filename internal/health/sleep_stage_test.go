package health

import "testing"

func TestNormalizeStage(t *testing.T) {
	cases := []struct {
		in        string
		want      string
		wantKnown bool
	}{
		{"Deep", StageDeep, true},
		{"deep", StageDeep, true},
		{"  REM  ", StageREM, true},
		{"Tief", StageDeep, true},
		{"Profond", StageDeep, true},
		{"leger", StageCore, true},
		{"despierto", StageAwake, true},
		{"Profondo", StageDeep, true},
		{"sono profundo", StageDeep, true},
		{"diep", StageDeep, true},
		{"深い", StageDeep, true},
		{"快速眼动", StageREM, true},
		{"深層", StageDeep, true},
		{"깊은", StageDeep, true},
		{"In Bed", StageInBed, true},
		{"hovering", "hovering", false},
	}
	for _, tc := range cases {
		got, known := NormalizeStage(tc.in)
		if got != tc.want || known != tc.wantKnown {
			t.Errorf("NormalizeStage(%q) = (%q, %v), want (%q, %v)", tc.in, got, known, tc.want, tc.wantKnown)
		}
	}
}

func TestIsAsleepStage(t *testing.T) {
	asleep := []string{StageCore, StageDeep, StageREM, StageAsleep}
	for _, s := range asleep {
		if !IsAsleepStage(s) {
			t.Errorf("%s should count toward sleep", s)
		}
	}
	awake := []string{StageAwake, StageInBed, "hovering"}
	for _, s := range awake {
		if IsAsleepStage(s) {
			t.Errorf("%s must not count toward sleep", s)
		}
	}
}

// TestAsleepStagesMatchPredicate keeps the storage filter list and the
// per-interval predicate agreeing on what counts as sleep.
func TestAsleepStagesMatchPredicate(t *testing.T) {
	listed := AsleepStages()
	for _, s := range listed {
		if !IsAsleepStage(s) {
			t.Errorf("AsleepStages lists %q but IsAsleepStage rejects it", s)
		}
	}
	all := []string{StageCore, StageDeep, StageREM, StageAwake, StageInBed, StageAsleep}
	count := 0
	for _, s := range all {
		if IsAsleepStage(s) {
			count++
		}
	}
	if count != len(listed) {
		t.Errorf("predicate accepts %d stages, AsleepStages lists %d", count, len(listed))
	}
}
