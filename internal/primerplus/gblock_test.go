package primerplus

import (
	"strconv"
	"strings"
	"testing"
)

const (
	gblockLeft     = "ACTGACTGACTGACTGACTG"
	gblockInternal = "TTTTAAAACCCCAAAATTTT"
	gblockRight    = "GATCGATCGATCGATCGATC"
)

// gblockTrioPayload mimics a decoded design-run record: left at 10,
// probe at 35 and the right primer's 3' end at 84, giving filler gaps
// of 5 and 10 around the probe and 35 without it
func gblockTrioPayload() map[string]interface{} {
	return map[string]interface{}{
		"trios": []interface{}{
			map[string]interface{}{
				"index": 0.0,
				"left": map[string]interface{}{
					"SEQUENCE": gblockLeft,
					"COORDS":   []interface{}{10.0, 20.0},
				},
				"right": map[string]interface{}{
					"SEQUENCE": gblockRight,
					"COORDS":   []interface{}{84.0, 20.0},
				},
				"internal": map[string]interface{}{
					"SEQUENCE": gblockInternal,
					"COORDS":   []interface{}{35.0, 20.0},
				},
			},
		},
	}
}

func TestBuildGblock_withProbe(t *testing.T) {
	opts := GblockOptions{
		CandidateIndex:   0,
		IncludeProbe:     true,
		UpstreamLength:   30,
		DownstreamLength: 30,
		Seed:             67,
	}

	result, err := BuildGblock(gblockTrioPayload(), opts)
	if err != nil {
		t.Fatalf("BuildGblock() error: %v", err)
	}

	want := FillerLengths{LeftProbeGap: 5, RightProbeGap: 10, NoProbeGap: 35, Upstream: 30, Downstream: 30}
	if result.FillerLengths != want {
		t.Errorf("FillerLengths = %+v, want %+v", result.FillerLengths, want)
	}

	// upstream(30) + left(20) + 5 + probe(20) + 10 + right(20) + downstream(30)
	if len(result.Gblock) != 135 {
		t.Errorf("gblock length = %d, want 135", len(result.Gblock))
	}

	if got := result.Gblock[30:50]; got != gblockLeft {
		t.Errorf("left primer at offset 30 = %q, want %q", got, gblockLeft)
	}
	if got := result.Gblock[55:75]; got != gblockInternal {
		t.Errorf("probe at offset 55 = %q, want %q", got, gblockInternal)
	}
	if got := result.Gblock[85:105]; got != ReverseComplement(gblockRight) {
		t.Errorf("right primer at offset 85 = %q, want its reverse complement", got)
	}

	if result.Primers.Left != gblockLeft || result.Primers.Right != gblockRight || result.Primers.Internal != gblockInternal {
		t.Errorf("Primers = %+v, oligos not echoed", result.Primers)
	}
}

func TestBuildGblock_withoutProbe(t *testing.T) {
	opts := GblockOptions{CandidateIndex: 0, UpstreamLength: 30, DownstreamLength: 30, Seed: 67}

	result, err := BuildGblock(gblockTrioPayload(), opts)
	if err != nil {
		t.Fatalf("BuildGblock() error: %v", err)
	}

	// upstream(30) + left(20) + 35 + right(20) + downstream(30)
	if len(result.Gblock) != 135 {
		t.Errorf("gblock length = %d, want 135", len(result.Gblock))
	}
	if strings.Contains(result.Gblock, gblockInternal) {
		t.Error("probe sequence present in a probe-free gblock")
	}
	if result.FillerLengths.NoProbeGap != 35 {
		t.Errorf("NoProbeGap = %d, want 35", result.FillerLengths.NoProbeGap)
	}
}

func TestBuildGblock_seededDeterminism(t *testing.T) {
	opts := GblockOptions{CandidateIndex: 0, IncludeProbe: true, UpstreamLength: 30, DownstreamLength: 30, Seed: 67}

	first, err := BuildGblock(gblockTrioPayload(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := BuildGblock(gblockTrioPayload(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Gblock != second.Gblock {
		t.Error("same seed produced different constructs")
	}

	opts.Seed = 68
	other, err := BuildGblock(gblockTrioPayload(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if other.Gblock == first.Gblock {
		t.Error("different seeds produced the same construct")
	}
}

func TestBuildGblock_legacyPayload(t *testing.T) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"PRIMER_LEFT_1_SEQUENCE":     gblockLeft,
			"PRIMER_LEFT_1":              []interface{}{10.0, 20.0},
			"PRIMER_RIGHT_1_SEQUENCE":    gblockRight,
			"PRIMER_RIGHT_1":             []interface{}{84.0, 20.0},
			"PRIMER_INTERNAL_1_SEQUENCE": gblockInternal,
			"PRIMER_INTERNAL_1":          []interface{}{35.0, 20.0},
		},
	}

	result, err := BuildGblock(payload, GblockOptions{CandidateIndex: 1, IncludeProbe: true, Seed: 1})
	if err != nil {
		t.Fatalf("BuildGblock() error: %v", err)
	}
	if result.FillerLengths.LeftProbeGap != 5 || result.FillerLengths.RightProbeGap != 10 {
		t.Errorf("FillerLengths = %+v, want gaps 5 and 10", result.FillerLengths)
	}
}

func TestBuildGblock_errors(t *testing.T) {
	t.Run("unsupported payload", func(t *testing.T) {
		if _, err := BuildGblock(map[string]interface{}{}, GblockOptions{}); err == nil {
			t.Error("BuildGblock() accepted an empty payload")
		}
	})

	t.Run("probe required but absent", func(t *testing.T) {
		payload := gblockTrioPayload()
		trio := payload["trios"].([]interface{})[0].(map[string]interface{})
		trio["internal"] = map[string]interface{}{}

		if _, err := BuildGblock(payload, GblockOptions{IncludeProbe: true}); err == nil {
			t.Error("BuildGblock() built a probe-inclusive construct without a probe")
		}
	})

	t.Run("candidate index out of range", func(t *testing.T) {
		if _, err := BuildGblock(gblockTrioPayload(), GblockOptions{CandidateIndex: 9}); err == nil {
			t.Error("BuildGblock() resolved a nonexistent candidate")
		}
	})
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"ACGT", "ACGT"},
		{"AACC", "GGTT"},
		{"TTTT", "AAAA"},
		{"acgt", "ACGT"},
		{"", ""},
		// ambiguity codes have no complement and pass through unchanged
		{"ACGTN", "NACGT"},
		{"ANNT", "ANNT"},
	}
	for _, tt := range tests {
		if got := ReverseComplement(tt.seq); got != tt.want {
			t.Errorf("ReverseComplement(%q) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestThermoValueParsing(t *testing.T) {
	out := "Calculated thermodynamical parameters for dimer:\tdS = -256.848\tdH = -89300\tdG = -9634.87\tt = 43.86"

	got := map[string]float64{}
	for _, match := range thermoValue.FindAllStringSubmatch(out, -1) {
		value, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			t.Fatalf("unparsable value %q", match[2])
		}
		got[match[1]] = value
	}

	want := map[string]float64{"dS": -256.848, "dH": -89300, "dG": -9634.87, "t": 43.86}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s = %v, want %v", key, got[key], value)
		}
	}
}
