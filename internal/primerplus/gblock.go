package primerplus

import (
	"fmt"
	"math"
	"math/rand"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/MaxwellM34/primerPlus/config"
)

var bases = []byte("ACGT")

// GblockOptions control synthetic-construct assembly for a selected
// candidate
type GblockOptions struct {
	// which candidate to build around
	CandidateIndex int

	// include the internal probe and split the filler around it
	IncludeProbe bool

	// random flank lengths added before and after the insert
	UpstreamLength   int
	DownstreamLength int

	// seed for the filler randomizer, fixed for reproducible constructs
	Seed int64
}

// GblockPrimers echoes the oligo sequences the construct was built from
type GblockPrimers struct {
	Left     string `json:"left"`
	Right    string `json:"right"`
	Internal string `json:"internal,omitempty"`
}

// FillerLengths records how much random DNA was added where
type FillerLengths struct {
	LeftProbeGap  int `json:"leftProbeGap"`
	RightProbeGap int `json:"rightProbeGap"`
	NoProbeGap    int `json:"noProbeGap"`
	Upstream      int `json:"upstream"`
	Downstream    int `json:"downstream"`
}

// GblockResult is the persisted synthetic-construct record
type GblockResult struct {
	CandidateIndex int            `json:"candidateIndex"`
	IncludeProbe   bool           `json:"includeProbe"`
	RandomSeed     int64          `json:"randomSeed"`
	Gblock         string         `json:"gblock"`
	Primers        GblockPrimers  `json:"primers"`
	FillerLengths  FillerLengths  `json:"fillerLengths"`
	Hairpin        *HairpinReport `json:"hairpin,omitempty"`
}

// BuildGblock assembles a synthetic template around a selected trio:
// left primer, optional probe, reverse-complemented right primer, with
// seeded random filler closing the gaps and random flanks on both ends
func BuildGblock(payload map[string]interface{}, opts GblockOptions) (*GblockResult, error) {
	candidate, err := resolveCandidate(payload, opts.CandidateIndex)
	if err != nil {
		return nil, err
	}

	left := candidate["left"].Sequence()
	right := candidate["right"].Sequence()
	internal := candidate["internal"].Sequence()

	if left == "" {
		return nil, fmt.Errorf("candidate %d is missing the left primer sequence", opts.CandidateIndex)
	}
	if right == "" {
		return nil, fmt.Errorf("candidate %d is missing the right primer sequence", opts.CandidateIndex)
	}
	if opts.IncludeProbe && internal == "" {
		return nil, fmt.Errorf("probe-inclusive gblock requires an internal probe sequence")
	}

	filler, err := fillerCounts(candidate, opts.IncludeProbe)
	if err != nil {
		return nil, err
	}
	filler.Upstream = opts.UpstreamLength
	filler.Downstream = opts.DownstreamLength

	rng := rand.New(rand.NewSource(opts.Seed))
	upstream := randomDNA(opts.UpstreamLength, rng)
	downstream := randomDNA(opts.DownstreamLength, rng)
	rightOnTemplate := ReverseComplement(right)

	var insert string
	if opts.IncludeProbe {
		insert = left + randomDNA(filler.LeftProbeGap, rng) + internal + randomDNA(filler.RightProbeGap, rng) + rightOnTemplate
	} else {
		insert = left + randomDNA(filler.NoProbeGap, rng) + rightOnTemplate
	}

	return &GblockResult{
		CandidateIndex: opts.CandidateIndex,
		IncludeProbe:   opts.IncludeProbe,
		RandomSeed:     opts.Seed,
		Gblock:         upstream + insert + downstream,
		Primers: GblockPrimers{
			Left:     left,
			Right:    right,
			Internal: internal,
		},
		FillerLengths: filler,
	}, nil
}

// resolveCandidate finds the requested candidate in either a trio
// payload or the legacy flat "data" payload
func resolveCandidate(payload map[string]interface{}, index int) (map[string]Entry, error) {
	if trios, ok := payload["trios"].([]interface{}); ok {
		return resolveTrioCandidate(trios, index)
	}
	if data, ok := payload["data"].(map[string]interface{}); ok {
		return resolveLegacyCandidate(data, index)
	}
	return nil, fmt.Errorf("unsupported payload format, expected \"trios\" or \"data\"")
}

// resolveTrioCandidate prefers the trio whose recorded index matches,
// falling back to positional lookup
func resolveTrioCandidate(trios []interface{}, index int) (map[string]Entry, error) {
	if len(trios) == 0 {
		return nil, fmt.Errorf("trio payload includes no trios")
	}

	var chosen map[string]interface{}
	for _, raw := range trios {
		trio, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if recorded, ok := asFloat(trio["index"]); ok && int(recorded) == index {
			chosen = trio
			break
		}
	}
	if chosen == nil && index >= 0 && index < len(trios) {
		chosen, _ = trios[index].(map[string]interface{})
	}
	if chosen == nil {
		return nil, fmt.Errorf("candidate index %d not found in trios payload", index)
	}

	candidate := make(map[string]Entry, 3)
	for _, role := range []string{"left", "right", "internal"} {
		section, ok := chosen[role].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("trio candidate is missing the %s section", role)
		}
		candidate[role] = Entry(section)
	}
	return candidate, nil
}

// resolveLegacyCandidate reads the flat PRIMER_<ROLE>_<i>_* key shape
// written before trios were introduced
func resolveLegacyCandidate(data map[string]interface{}, index int) (map[string]Entry, error) {
	candidate := make(map[string]Entry, 3)
	for role, prefix := range map[string]string{"left": "PRIMER_LEFT", "right": "PRIMER_RIGHT", "internal": "PRIMER_INTERNAL"} {
		entry := Entry{}
		if seq, ok := data[fmt.Sprintf("%s_%d_SEQUENCE", prefix, index)].(string); ok {
			entry["SEQUENCE"] = seq
		}
		if coords, ok := data[fmt.Sprintf("%s_%d", prefix, index)].([]interface{}); ok {
			entry["COORDS"] = coords
		}
		if role != "internal" && entry.Sequence() == "" {
			return nil, fmt.Errorf("missing legacy key %s_%d_SEQUENCE", prefix, index)
		}
		candidate[role] = entry
	}
	return candidate, nil
}

// fillerCounts computes the random-DNA gap lengths between the oligos
// from their template coordinates
func fillerCounts(candidate map[string]Entry, includeProbe bool) (FillerLengths, error) {
	leftStart, leftLen, okLeft := candidate["left"].Coords()
	rightStart, rightLen, okRight := candidate["right"].Coords()
	if !okLeft || !okRight {
		return FillerLengths{}, fmt.Errorf("missing COORDS values in candidate section")
	}

	leftEnd := leftStart + leftLen
	rightFivePrime := rightStart - rightLen + 1

	filler := FillerLengths{NoProbeGap: max(0, rightFivePrime-leftEnd)}
	if !includeProbe {
		return filler, nil
	}

	internalStart, internalLen, okInternal := candidate["internal"].Coords()
	if !okInternal {
		return FillerLengths{}, fmt.Errorf("missing COORDS values in candidate section")
	}
	internalEnd := internalStart + internalLen

	filler.LeftProbeGap = max(0, internalStart-leftEnd)
	filler.RightProbeGap = max(0, rightFivePrime-internalEnd)
	return filler, nil
}

// randomDNA returns n random bases from the seeded source
func randomDNA(n int, rng *rand.Rand) string {
	if n <= 0 {
		return ""
	}
	seq := make([]byte, n)
	for i := range seq {
		seq[i] = bases[rng.Intn(len(bases))]
	}
	return string(seq)
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// Bases without a complement (ambiguity codes like N) pass through
// unchanged.
func ReverseComplement(seq string) string {
	seq = strings.ToUpper(seq)

	comp := map[byte]byte{'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G'}
	rc := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		c, ok := comp[seq[i]]
		if !ok {
			c = seq[i]
		}
		rc[len(seq)-1-i] = c
	}
	return string(rc)
}

// HairpinWindow is the highest-Tm window found by hairpin analysis
type HairpinWindow struct {
	Start          int     `json:"start"`
	Sequence       string  `json:"sequence"`
	Tm             float64 `json:"tm"`
	DG             float64 `json:"dg"`
	DH             float64 `json:"dh"`
	DS             float64 `json:"ds"`
	StructureFound bool    `json:"structureFound"`
}

// HairpinReport summarizes hairpin analysis over a construct
type HairpinReport struct {
	Mode           string         `json:"mode"`
	SequenceLength int            `json:"sequenceLength"`
	WindowLength   int            `json:"windowLength"`
	BestWindow     *HairpinWindow `json:"bestWindow"`
}

// maxHairpinWindow is ntthal's longest analyzable sequence
const maxHairpinWindow = 60

// CalcHairpin runs ntthal hairpin analysis over a sequence. Sequences
// longer than the ntthal limit are scanned in fixed-size windows and the
// highest-Tm window is reported.
func CalcHairpin(seq string, conf *config.Config) (*HairpinReport, error) {
	if len(seq) <= maxHairpinWindow {
		window, err := ntthalHairpin(seq, 0, conf)
		if err != nil {
			return nil, err
		}
		return &HairpinReport{
			Mode:           "full",
			SequenceLength: len(seq),
			WindowLength:   len(seq),
			BestWindow:     window,
		}, nil
	}

	var best *HairpinWindow
	bestTm := math.Inf(-1)
	for start := 0; start <= len(seq)-maxHairpinWindow; start++ {
		window, err := ntthalHairpin(seq[start:start+maxHairpinWindow], start, conf)
		if err != nil {
			return nil, err
		}
		if window.Tm > bestTm {
			bestTm = window.Tm
			best = window
		}
	}

	return &HairpinReport{
		Mode:           "windowed",
		SequenceLength: len(seq),
		WindowLength:   maxHairpinWindow,
		BestWindow:     best,
	}, nil
}

// thermoValue pulls one "name = value" field out of ntthal's parameter line
var thermoValue = regexp.MustCompile(`(dS|dH|dG|t)\s*=\s*(-?[0-9.]+(?:[eE][+-]?[0-9]+)?)`)

// ntthalHairpin executes ntthal for one window and parses its
// thermodynamic parameter line
func ntthalHairpin(seq string, start int, conf *config.Config) (*HairpinWindow, error) {
	ntthalCmd := exec.Command(
		conf.Primer3.NtthalPath,
		"-a", "HAIRPIN",
		"-s1", seq,
	)
	if conf.Primer3.ConfDir != "" {
		ntthalCmd.Args = append(ntthalCmd.Args, "-path", conf.Primer3.ConfDir)
	}

	out, err := ntthalCmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("failed to execute ntthal: -s1 %s: %s: %w", seq, string(out), err)
	}

	window := &HairpinWindow{Start: start, Sequence: seq}
	for _, match := range thermoValue.FindAllStringSubmatch(string(out), -1) {
		value, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}

		switch match[1] {
		case "t":
			window.Tm = value
			window.StructureFound = true
		case "dG":
			window.DG = value
		case "dH":
			window.DH = value
		case "dS":
			window.DS = value
		}
	}
	return window, nil
}
