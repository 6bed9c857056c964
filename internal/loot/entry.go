package loot

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// nameWidth is the display width of the name column in formatted entries
const nameWidth = 9

// Entry is a single loot drop. Entries are immutable once built.
type Entry struct {
	name       string
	tries      int
	dropChance float64
}

var emptyEntry = Entry{name: "[empty drop]"}

// EmptyEntry returns the "[empty drop]" entry a draw yields on a table with
// no entries. It has no tries and no drop chance.
func EmptyEntry() Entry {
	return emptyEntry
}

// NewEntry builds an entry, deriving its drop chance from tries and confidence
func NewEntry(name string, tries int, confidence float64) (Entry, error) {
	chance, err := CalcDropChance(tries, confidence)
	if err != nil {
		return Entry{}, err
	}
	return Entry{name: name, tries: tries, dropChance: chance}, nil
}

// Name returns the entry label
func (e Entry) Name() string {
	return e.name
}

// Tries returns the number of tries after which the entry is expected to have dropped
func (e Entry) Tries() int {
	return e.tries
}

// DropChance returns the derived per-try drop chance
func (e Entry) DropChance() float64 {
	return e.dropChance
}

// String formats the entry as one line of a table listing, e.g.
//
//	    Sword, 10 tries, drops 25.9%
func (e Entry) String() string {
	name := runewidth.Truncate(e.name, nameWidth, "")
	return fmt.Sprintf("%s, %2d tries, drops %4.1f%%",
		runewidth.FillLeft(name, nameWidth), e.tries, 100*e.dropChance)
}
