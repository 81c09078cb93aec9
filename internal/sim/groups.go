package sim

import (
	"errors"
	"fmt"
	"math/bits"
)

// MaxGroups is the number of group slots a vehicle can belong to.
const MaxGroups = 32

// ErrGroupOutOfRange is returned for group ids outside 0..MaxGroups-1.
var ErrGroupOutOfRange = errors.New("group id out of range")

// GroupSet is a bit set of group ids 0..MaxGroups-1.
type GroupSet uint32

func checkGroup(id int) error {
	if id < 0 || id >= MaxGroups {
		return fmt.Errorf("group %d: %w", id, ErrGroupOutOfRange)
	}
	return nil
}

// GroupSetOf builds a set from ids.
func GroupSetOf(ids ...int) (GroupSet, error) {
	var g GroupSet
	for _, id := range ids {
		if err := g.Add(id); err != nil {
			return 0, err
		}
	}
	return g, nil
}

// Has reports membership. Out-of-range ids are never members.
func (g GroupSet) Has(id int) bool {
	if id < 0 || id >= MaxGroups {
		return false
	}
	return g&(1<<uint(id)) != 0
}

// Add sets the bit for id.
func (g *GroupSet) Add(id int) error {
	if err := checkGroup(id); err != nil {
		return err
	}
	*g |= 1 << uint(id)
	return nil
}

// Remove clears the bit for id only.
func (g *GroupSet) Remove(id int) error {
	if err := checkGroup(id); err != nil {
		return err
	}
	*g &^= 1 << uint(id)
	return nil
}

// Len returns the number of groups in the set.
func (g GroupSet) Len() int {
	return bits.OnesCount32(uint32(g))
}

// IDs returns the member ids in ascending order.
func (g GroupSet) IDs() []int {
	ids := make([]int, 0, g.Len())
	for id := 0; id < MaxGroups; id++ {
		if g.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
