// Package dice implements the table's dice: the canonical die set, single and
// repeated rolls, and the 4d6-drop-lowest ability score roll used by the
// character builder.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrInvalidSides indicates a die with a non-positive number of faces.
var ErrInvalidSides = errors.New("die must have a positive number of sides")

// ErrInvalidCount indicates a non-positive roll count.
var ErrInvalidCount = errors.New("roll count must be positive")

// Faces lists the canonical die types, smallest first.
var Faces = []int{4, 6, 8, 10, 12, 20}

// Name returns the display name for a die, e.g. "d20".
func Name(sides int) string {
	return fmt.Sprintf("d%d", sides)
}

// Supported reports whether sides is one of the canonical die types.
func Supported(sides int) bool {
	for _, f := range Faces {
		if f == sides {
			return true
		}
	}
	return false
}

// ParseName resolves a display name like "d20" back to its face count.
func ParseName(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "d") {
		return 0, false
	}
	sides, err := strconv.Atoi(name[1:])
	if err != nil || !Supported(sides) {
		return 0, false
	}
	return sides, true
}

// Roller produces pseudo-random die results. It holds no persisted state;
// tests inject a seeded source for determinism.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func New() *Roller {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

func NewWithSource(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// Roll returns a uniform result in [1, sides].
func (r *Roller) Roll(sides int) (int, error) {
	if sides <= 0 {
		return 0, ErrInvalidSides
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1, nil
}

// RollMany returns count independent results for the same die.
func (r *Roller) RollMany(count, sides int) ([]int, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if sides <= 0 {
		return nil, ErrInvalidSides
	}

	results := make([]int, count)
	for i := range results {
		roll, err := r.Roll(sides)
		if err != nil {
			return nil, err
		}
		results[i] = roll
	}
	return results, nil
}

// RollWithModifier returns a single roll plus a flat modifier.
func (r *Roller) RollWithModifier(sides, modifier int) (int, error) {
	roll, err := r.Roll(sides)
	if err != nil {
		return 0, err
	}
	return roll + modifier, nil
}

// RollAbilityScore rolls 4d6, drops the lowest die and sums the rest.
// Results are always in [3, 18].
func (r *Roller) RollAbilityScore() int {
	rolls, _ := r.RollMany(4, 6)
	sort.Sort(sort.Reverse(sort.IntSlice(rolls)))

	total := 0
	for _, v := range rolls[:3] {
		total += v
	}
	return total
}

// FormatRoll renders a roll annotation, e.g. "d20: 15".
func FormatRoll(name string, result int) string {
	return fmt.Sprintf("%s: %d", name, result)
}
