package loot

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/loottable/internal/logger"
)

// RandomSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Policy decides what a load does with a bad line
type Policy int

const (
	// FailFast stops at the first bad line, keeping the entries parsed before it
	FailFast Policy = iota
	// Collect skips bad lines and reports all of them together
	Collect
)

// String returns the config spelling of the policy
func (p Policy) String() string {
	switch p {
	case FailFast:
		return "fail_fast"
	case Collect:
		return "collect"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a config string to a Policy
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail_fast", "failfast":
		return FailFast, nil
	case "collect":
		return Collect, nil
	default:
		return FailFast, fmt.Errorf("unknown load policy %q", s)
	}
}

// Table is an ordered set of loot entries with a random source for draws.
// A Table is not safe for concurrent use.
type Table struct {
	entries    []Entry
	confidence float64
	policy     Policy
	rng        RandomSource
}

// Option configures a Table
type Option func(*Table)

// WithConfidence sets the confidence used for entries loaded afterwards
func WithConfidence(confidence float64) Option {
	return func(t *Table) {
		t.confidence = confidence
	}
}

// WithPolicy sets how bad lines are handled during load
func WithPolicy(policy Policy) Option {
	return func(t *Table) {
		t.policy = policy
	}
}

// WithRandom injects the random source used by draws
func WithRandom(rng RandomSource) Option {
	return func(t *Table) {
		t.rng = rng
	}
}

// WithSeed gives the table its own generator seeded with seed
func WithSeed(seed int64) Option {
	return func(t *Table) {
		t.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates an empty table. Without WithRandom or WithSeed the table gets
// its own randomly seeded generator.
func New(opts ...Option) *Table {
	t := &Table{
		confidence: DefaultConfidence,
		policy:     FailFast,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = rand.New(rand.NewSource(NewSeed()))
	}
	return t
}

// Load creates a table and loads src into it. With the FailFast policy the
// partially loaded table is returned alongside the error.
func Load(src Source, opts ...Option) (*Table, error) {
	t := New(opts...)
	if err := t.Load(src); err != nil {
		return t, err
	}
	return t, nil
}

// Load appends one entry per non-blank line of src, in line order.
// Blank lines are skipped and not counted.
func (t *Table) Load(src Source) error {
	lines, err := src.Lines()
	if err != nil {
		var unavailable *SourceUnavailableError
		if errors.As(err, &unavailable) {
			return err
		}
		return &SourceUnavailableError{Source: fmt.Sprintf("%T", src), Err: err}
	}

	var failures []error
	loaded := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, err := t.parseLine(i+1, line)
		if err != nil {
			if t.policy == FailFast {
				return err
			}
			logger.Warning("Skipping loot record", "line", i+1, "error", err)
			failures = append(failures, err)
			continue
		}
		t.entries = append(t.entries, entry)
		loaded++
	}

	logger.Debug("Loot table loaded", "entries", loaded, "skipped", len(failures), "confidence", t.confidence)

	if len(failures) > 0 {
		return &LoadError{Errors: failures}
	}
	return nil
}

// parseLine splits a "name,tries" record on its first comma
func (t *Table) parseLine(lineNum int, line string) (Entry, error) {
	name, triesText, found := strings.Cut(line, ",")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return Entry{}, &MalformedLineError{Line: lineNum, Text: line}
	}

	triesText = strings.TrimSpace(triesText)
	tries, err := strconv.Atoi(triesText)
	if err != nil || tries < 1 {
		return Entry{}, &InvalidTriesError{Line: lineNum, Text: triesText}
	}

	entry, err := NewEntry(name, tries, t.confidence)
	if err != nil {
		return Entry{}, fmt.Errorf("line %d: %w", lineNum, err)
	}
	return entry, nil
}

// Get returns the formatted text of a randomly drawn entry. It never fails.
func (t *Table) Get() string {
	return t.Draw().String()
}

// Draw returns a randomly drawn entry
func (t *Table) Draw() Entry {
	return t.Pick(t.rng.Float64())
}

// Pick selects the entry for a given draw in [0, 1): the first entry whose
// cumulative drop chance reaches target. When target is above the table
// total, the entry with the highest drop chance is returned (first one wins
// ties). An empty table yields EmptyEntry().
func (t *Table) Pick(target float64) Entry {
	sum := 0.0
	for _, entry := range t.entries {
		sum += entry.dropChance
		if target <= sum {
			return entry
		}
	}
	return t.likeliest()
}

// likeliest returns the entry with the highest drop chance
func (t *Table) likeliest() Entry {
	if len(t.entries) == 0 {
		return emptyEntry
	}
	return t.entries[t.likeliestIndex()]
}

// likeliestIndex returns the index of the first entry with the highest drop chance
func (t *Table) likeliestIndex() int {
	best := 0
	for i, entry := range t.entries {
		if entry.dropChance > t.entries[best].dropChance {
			best = i
		}
	}
	return best
}

// Shares returns, per entry, the probability that a draw selects it: the
// part of its cumulative interval that lies inside [0, 1), plus whatever
// lies above the total for the likeliest entry.
func (t *Table) Shares() []float64 {
	shares := make([]float64, len(t.entries))
	if len(t.entries) == 0 {
		return shares
	}
	sum := 0.0
	for i, entry := range t.entries {
		lo := math.Min(sum, 1)
		sum += entry.dropChance
		shares[i] = math.Min(sum, 1) - lo
	}
	if sum < 1 {
		shares[t.likeliestIndex()] += 1 - sum
	}
	return shares
}

// Size returns the number of entries
func (t *Table) Size() int {
	return len(t.entries)
}

// Total returns the sum of all drop chances. It is not normalized and may be
// below or above 1.
func (t *Table) Total() float64 {
	total := 0.0
	for _, entry := range t.entries {
		total += entry.dropChance
	}
	return total
}

// Entries returns a copy of the entries in table order
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// String lists every entry on its own line
func (t *Table) String() string {
	var sb strings.Builder
	for _, entry := range t.entries {
		sb.WriteString(entry.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Confidence returns the confidence used for newly loaded entries
func (t *Table) Confidence() float64 {
	return t.confidence
}

// SetConfidence changes the confidence for entries loaded afterwards.
// Existing entries keep their drop chance.
func (t *Table) SetConfidence(confidence float64) {
	t.confidence = confidence
}
