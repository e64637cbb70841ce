package primerplus

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/MaxwellM34/primerPlus/config"
)

// Entry is one role record (pair, left, right or internal) from the
// engine output: an open set of named numeric/string metrics. Fields
// set by the engine are never mutated after parsing.
type Entry map[string]interface{}

// Float returns a named metric as a float64 when it is numeric or a
// parsable numeric string
func (e Entry) Float(key string) (float64, bool) {
	return asFloat(e[key])
}

// Sequence returns the record's oligo sequence, or ""
func (e Entry) Sequence() string {
	if seq, ok := e["SEQUENCE"].(string); ok {
		return seq
	}
	return ""
}

// Coords returns the record's (start, length) coordinate pair
func (e Entry) Coords() (start, length int, ok bool) {
	coords, isSlice := e["COORDS"].([]interface{})
	if !isSlice || len(coords) < 2 {
		return 0, 0, false
	}

	s, okStart := asFloat(coords[0])
	l, okLen := asFloat(coords[1])
	if !okStart || !okLen {
		return 0, 0, false
	}
	return int(s), int(l), true
}

// asFloat converts engine metric values of any JSON-shaped type
func asFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Result is one engine response: aligned per-role candidate lists plus
// the raw key/value output for legacy field lookups
type Result struct {
	Pairs     []Entry
	Lefts     []Entry
	Rights    []Entry
	Internals []Entry

	// the flat KEY=VALUE pairs exactly as the engine wrote them
	Raw map[string]string
}

// Successful reports whether the engine produced at least one full
// left/right/internal trio: all four role lists must be non-empty
func (r *Result) Successful() bool {
	if r == nil {
		return false
	}
	return len(r.Pairs) > 0 && len(r.Lefts) > 0 && len(r.Rights) > 0 && len(r.Internals) > 0
}

// Len is the number of aligned candidates usable across all four roles
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	n := len(r.Pairs)
	for _, role := range [][]Entry{r.Lefts, r.Rights, r.Internals} {
		if len(role) < n {
			n = len(role)
		}
	}
	return n
}

// Engine runs one oligo design request. The design loop treats an error
// or an unsuccessful Result as a failed attempt, not a crash.
type Engine interface {
	Design(seqID, template string, globalArgs map[string]string) (*Result, error)
}

// primer3 executes primer3_core with a Boulder-IO settings file per
// design attempt
type primer3 struct {
	// path to the primer3_core executable
	corePath string

	// path to primer3's thermodynamic config folder, optional
	confDir string
}

// NewPrimer3 returns an Engine backed by the primer3_core executable
func NewPrimer3(conf *config.Config) Engine {
	return &primer3{
		corePath: conf.Primer3.CorePath,
		confDir:  conf.Primer3.ConfDir,
	}
}

// Design writes the primer3 input file, executes primer3_core against it
// and parses the output into aligned role records
func (p *primer3) Design(seqID, template string, globalArgs map[string]string) (*Result, error) {
	in, err := os.CreateTemp("", "primer3-in-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create primer3 input file: %w", err)
	}
	out, err := os.CreateTemp("", "primer3-out-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create primer3 output file: %w", err)
	}
	defer os.Remove(in.Name())
	defer os.Remove(out.Name())

	if _, err := in.Write(p.settings(seqID, template, globalArgs)); err != nil {
		return nil, fmt.Errorf("failed to write primer3 input file: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, err
	}

	p3Cmd := exec.Command(
		p.corePath,
		in.Name(),
		"-output", out.Name(),
		"-strict_tags",
	)

	// execute primer3 and wait on it to finish
	if output, err := p3Cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("failed to execute primer3 on input file %s: %s: %w", in.Name(), string(output), err)
	}

	fileBytes, err := os.ReadFile(out.Name())
	if err != nil {
		return nil, err
	}

	return parseResult(string(fileBytes))
}

// settings renders the Boulder-IO input file: sequence args, then the
// merged global args in sorted order, then the required "=" terminator
func (p *primer3) settings(seqID, template string, globalArgs map[string]string) []byte {
	var file bytes.Buffer
	fmt.Fprintf(&file, "SEQUENCE_ID=%s\n", seqID)
	fmt.Fprintf(&file, "SEQUENCE_TEMPLATE=%s\n", strings.ToUpper(template))
	if p.confDir != "" {
		fmt.Fprintf(&file, "PRIMER_THERMODYNAMIC_PARAMETERS_PATH=%s\n", p.confDir)
	}

	keys := make([]string, 0, len(globalArgs))
	for key := range globalArgs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&file, "%s=%s\n", key, globalArgs[key])
	}

	file.WriteString("=") // required at file's end
	return file.Bytes()
}

// roleKey matches per-candidate output keys like PRIMER_LEFT_0_TM and
// the bare coordinate keys like PRIMER_LEFT_0
var roleKey = regexp.MustCompile(`^PRIMER_(PAIR|LEFT|RIGHT|INTERNAL)_(\d+)(?:_(.+))?$`)

// parseResult reads primer3's KEY=VALUE output into aligned role records.
// A PRIMER_ERROR line fails the attempt; a clean response with zero pairs
// is returned as-is and simply won't be Successful.
func parseResult(file string) (*Result, error) {
	raw := make(map[string]string)
	for _, line := range strings.Split(file, "\n") {
		keyVal := strings.SplitN(line, "=", 2)
		if len(keyVal) > 1 {
			raw[strings.TrimSpace(keyVal[0])] = strings.TrimSpace(keyVal[1])
		}
	}

	if p3Error := raw["PRIMER_ERROR"]; p3Error != "" {
		return nil, fmt.Errorf("primer3 error: %s", p3Error)
	}

	result := &Result{Raw: raw}
	roles := map[string]*[]Entry{
		"PAIR":     &result.Pairs,
		"LEFT":     &result.Lefts,
		"RIGHT":    &result.Rights,
		"INTERNAL": &result.Internals,
	}

	for key, value := range raw {
		match := roleKey.FindStringSubmatch(key)
		if match == nil {
			continue
		}

		role, field := match[1], match[3]
		index, err := strconv.Atoi(match[2])
		if err != nil || index < 0 {
			continue
		}

		entries := roles[role]
		for len(*entries) <= index {
			*entries = append(*entries, Entry{})
		}

		if field == "" {
			// bare coordinate key: "start,length"
			if start, length, ok := parseCoords(value); ok {
				(*entries)[index]["COORDS"] = []interface{}{start, length}
			}
			continue
		}

		(*entries)[index][field] = parseValue(value)
	}

	return result, nil
}

// parseCoords splits a "start,length" pair
func parseCoords(value string) (start, length int, ok bool) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, errStart := strconv.Atoi(strings.TrimSpace(parts[0]))
	length, errLen := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errStart != nil || errLen != nil {
		return 0, 0, false
	}
	return start, length, true
}

// parseValue keeps numeric output fields numeric and leaves the rest as strings
func parseValue(value string) interface{} {
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsInf(f, 0) {
		return f
	}
	return value
}

// BuildGlobalArgs merges the fixed constants with each tunable's current
// level. Constants silently win over tunable-derived keys; two tunables
// emitting the same key is a fatal rule-table misconfiguration.
func BuildGlobalArgs(constants map[string]string, tunables []config.Tunable, levels LevelMap) (map[string]string, error) {
	merged := make(map[string]string, len(constants))
	for key, value := range constants {
		merged[key] = value
	}

	for _, t := range tunables {
		updates, err := resolveTunable(t, levels[t.Key])
		if err != nil {
			return nil, err
		}

		for key, value := range updates {
			if _, fixed := constants[key]; fixed {
				continue
			}
			if _, dup := merged[key]; dup {
				return nil, &ConfigError{Key: key, Msg: "duplicate primer3 arg emitted by tunables"}
			}
			merged[key] = value
		}
	}

	return merged, nil
}

// resolveTunable expands one tunable level into its primer3 arguments
func resolveTunable(t config.Tunable, levelIndex int) (map[string]string, error) {
	if levelIndex < 0 || levelIndex >= len(t.Levels) {
		return nil, &ConfigError{Key: t.Key, Msg: fmt.Sprintf("invalid level index %d", levelIndex)}
	}

	level := t.Levels[levelIndex]
	switch t.Kind {
	case config.TmWindow:
		return map[string]string{
			"PRIMER_MIN_TM":      fmtNum(level.Min),
			"PRIMER_OPT_TM":      fmtNum(level.Opt),
			"PRIMER_MAX_TM":      fmtNum(level.Max),
			"PRIMER_MAX_TM_DIFF": fmtNum(level.Diff),
		}, nil
	case config.SizeWindow:
		return map[string]string{
			"PRIMER_MIN_SIZE": fmtNum(level.Min),
			"PRIMER_OPT_SIZE": fmtNum(level.Opt),
			"PRIMER_MAX_SIZE": fmtNum(level.Max),
		}, nil
	case config.ProductSizeRange:
		ranges := make([]string, 0, len(level.Ranges))
		for _, r := range level.Ranges {
			ranges = append(ranges, fmt.Sprintf("%d-%d", r[0], r[1]))
		}
		return map[string]string{"PRIMER_PRODUCT_SIZE_RANGE": strings.Join(ranges, " ")}, nil
	case config.GCWindow:
		return map[string]string{
			"PRIMER_MIN_GC":         fmtNum(level.Min),
			"PRIMER_OPT_GC_PERCENT": fmtNum(level.Opt),
			"PRIMER_MAX_GC":         fmtNum(level.Max),
		}, nil
	case config.InternalTmWindow:
		return map[string]string{
			"PRIMER_INTERNAL_MIN_TM": fmtNum(level.Min),
			"PRIMER_INTERNAL_OPT_TM": fmtNum(level.Opt),
			"PRIMER_INTERNAL_MAX_TM": fmtNum(level.Max),
		}, nil
	case config.InternalSize:
		return map[string]string{
			"PRIMER_INTERNAL_MIN_SIZE": fmtNum(level.Min),
			"PRIMER_INTERNAL_OPT_SIZE": fmtNum(level.Opt),
			"PRIMER_INTERNAL_MAX_SIZE": fmtNum(level.Max),
		}, nil
	case config.InternalGC:
		return map[string]string{
			"PRIMER_INTERNAL_MIN_GC":         fmtNum(level.Min),
			"PRIMER_INTERNAL_OPT_GC_PERCENT": fmtNum(level.Opt),
			"PRIMER_INTERNAL_MAX_GC":         fmtNum(level.Max),
		}, nil
	case config.Threshold:
		return map[string]string{t.Primer3Key: fmtNum(level.Value)}, nil
	default:
		return nil, &ConfigError{Key: t.Key, Msg: fmt.Sprintf("unknown tunable kind %q", t.Kind)}
	}
}

// fmtNum renders integral floats without a decimal point, the way
// primer3 settings files are usually written
func fmtNum(f float64) string {
	if f == math.Trunc(f) {
		return strconv.Itoa(int(f))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
