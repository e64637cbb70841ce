package primerplus

import (
	"errors"
	"strings"
	"testing"

	"github.com/MaxwellM34/primerPlus/config"
	"github.com/google/go-cmp/cmp"
)

func TestBuildGlobalArgs(t *testing.T) {
	tunables := []config.Tunable{
		{
			Key:        "SELF_END",
			Importance: 1,
			Kind:       config.Threshold,
			Levels:     []config.Level{{Value: 10}, {Value: 20}},
			Primer3Key: "PRIMER_MAX_SELF_END_TH",
		},
		{
			Key:        "TM",
			Importance: 2,
			Kind:       config.TmWindow,
			Levels:     []config.Level{{Min: 58, Opt: 58.5, Max: 59.5, Diff: 1}},
		},
	}
	constants := map[string]string{"PRIMER_GC_CLAMP": "1"}

	got, err := BuildGlobalArgs(constants, tunables, LevelMap{"SELF_END": 1, "TM": 0})
	if err != nil {
		t.Fatalf("BuildGlobalArgs() error = %v", err)
	}

	want := map[string]string{
		"PRIMER_GC_CLAMP":        "1",
		"PRIMER_MAX_SELF_END_TH": "20",
		"PRIMER_MIN_TM":          "58",
		"PRIMER_OPT_TM":          "58.5",
		"PRIMER_MAX_TM":          "59.5",
		"PRIMER_MAX_TM_DIFF":     "1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildGlobalArgs() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGlobalArgs_constantsWin(t *testing.T) {
	// a tunable-derived key colliding with a constant is dropped silently
	tunables := []config.Tunable{
		{
			Key:        "POLY_X",
			Importance: 1,
			Kind:       config.Threshold,
			Levels:     []config.Level{{Value: 3}},
			Primer3Key: "PRIMER_MAX_POLY_X",
		},
	}
	constants := map[string]string{"PRIMER_MAX_POLY_X": "5"}

	got, err := BuildGlobalArgs(constants, tunables, LevelMap{"POLY_X": 0})
	if err != nil {
		t.Fatalf("BuildGlobalArgs() error = %v", err)
	}
	if got["PRIMER_MAX_POLY_X"] != "5" {
		t.Errorf("constant was overwritten: got %s, want 5", got["PRIMER_MAX_POLY_X"])
	}
}

func TestBuildGlobalArgs_duplicateKeyFatal(t *testing.T) {
	// two tunables emitting the same primer3 key is a rule-table bug
	dup := func(key string) config.Tunable {
		return config.Tunable{
			Key:        key,
			Importance: 1,
			Kind:       config.Threshold,
			Levels:     []config.Level{{Value: 1}},
			Primer3Key: "PRIMER_MAX_HAIRPIN_TH",
		}
	}

	_, err := BuildGlobalArgs(nil, []config.Tunable{dup("A"), dup("B")}, LevelMap{"A": 0, "B": 0})

	var confErr *ConfigError
	if !errors.As(err, &confErr) {
		t.Fatalf("BuildGlobalArgs() error = %v, want a ConfigError", err)
	}
	if confErr.Key != "PRIMER_MAX_HAIRPIN_TH" {
		t.Errorf("ConfigError names %q, want the colliding primer3 key", confErr.Key)
	}
}

func TestBuildGlobalArgs_invalidLevelFatal(t *testing.T) {
	tunables := []config.Tunable{
		{
			Key:        "A",
			Importance: 1,
			Kind:       config.Threshold,
			Levels:     []config.Level{{Value: 1}},
			Primer3Key: "A_TH",
		},
	}

	_, err := BuildGlobalArgs(nil, tunables, LevelMap{"A": 5})

	var confErr *ConfigError
	if !errors.As(err, &confErr) {
		t.Fatalf("BuildGlobalArgs() error = %v, want a ConfigError", err)
	}
}

func TestResolveTunable_kinds(t *testing.T) {
	tests := []struct {
		name    string
		tunable config.Tunable
		want    map[string]string
	}{
		{
			"product size ranges join with spaces",
			config.Tunable{
				Key:    "PRODUCT",
				Kind:   config.ProductSizeRange,
				Levels: []config.Level{{Ranges: [][2]int{{75, 150}, {200, 300}}}},
			},
			map[string]string{"PRIMER_PRODUCT_SIZE_RANGE": "75-150 200-300"},
		},
		{
			"internal gc window",
			config.Tunable{
				Key:    "GC",
				Kind:   config.InternalGC,
				Levels: []config.Level{{Min: 45, Opt: 50, Max: 55}},
			},
			map[string]string{
				"PRIMER_INTERNAL_MIN_GC":         "45",
				"PRIMER_INTERNAL_OPT_GC_PERCENT": "50",
				"PRIMER_INTERNAL_MAX_GC":         "55",
			},
		},
		{
			"size window renders whole numbers",
			config.Tunable{
				Key:    "SIZE",
				Kind:   config.SizeWindow,
				Levels: []config.Level{{Min: 18, Opt: 22, Max: 25}},
			},
			map[string]string{
				"PRIMER_MIN_SIZE": "18",
				"PRIMER_OPT_SIZE": "22",
				"PRIMER_MAX_SIZE": "25",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTunable(tt.tunable, 0)
			if err != nil {
				t.Fatalf("resolveTunable() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("resolveTunable() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseResult(t *testing.T) {
	file := strings.Join([]string{
		"SEQUENCE_ID=MH1000",
		"PRIMER_PAIR_NUM_RETURNED=1",
		"PRIMER_PAIR_0_PENALTY=0.83",
		"PRIMER_PAIR_0_PRODUCT_SIZE=100",
		"PRIMER_LEFT_0=10,20",
		"PRIMER_LEFT_0_SEQUENCE=ACTTACTTACTTACTTACTT",
		"PRIMER_LEFT_0_TM=58.2",
		"PRIMER_RIGHT_0=95,20",
		"PRIMER_RIGHT_0_TM=58.9",
		"PRIMER_INTERNAL_0=40,22",
		"PRIMER_INTERNAL_0_TM=69.1",
		"=",
	}, "\n")

	got, err := parseResult(file)
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}

	if !got.Successful() {
		t.Error("parseResult() not Successful for a full trio response")
	}
	if got.Len() != 1 {
		t.Errorf("Len() = %d, want 1", got.Len())
	}

	if penalty, ok := got.Pairs[0].Float("PENALTY"); !ok || penalty != 0.83 {
		t.Errorf("pair PENALTY = %v, want 0.83", got.Pairs[0]["PENALTY"])
	}
	if got.Lefts[0].Sequence() != "ACTTACTTACTTACTTACTT" {
		t.Errorf("left SEQUENCE = %q", got.Lefts[0].Sequence())
	}
	if start, length, ok := got.Internals[0].Coords(); !ok || start != 40 || length != 22 {
		t.Errorf("internal COORDS = %d,%d (%t), want 40,22", start, length, ok)
	}
}

func TestParseResult_engineError(t *testing.T) {
	if _, err := parseResult("PRIMER_ERROR=Missing SEQUENCE tag\n="); err == nil {
		t.Error("parseResult() accepted a PRIMER_ERROR response")
	}
}

func TestParseResult_emptyResponse(t *testing.T) {
	got, err := parseResult("PRIMER_PAIR_NUM_RETURNED=0\nPRIMER_LEFT_NUM_RETURNED=0\n=")
	if err != nil {
		t.Fatalf("parseResult() error = %v", err)
	}
	if got.Successful() {
		t.Error("empty response reported as Successful")
	}
}

func TestFmtNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{58, "58"},
		{58.5, "58.5"},
		{59.75, "59.75"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := fmtNum(tt.in); got != tt.want {
			t.Errorf("fmtNum(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
