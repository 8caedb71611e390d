package predictor

import (
	"fmt"

	"github.com/hashicorp/golang-lru/simplelru"
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/vpsim/values"
)

// ValueHistoryStats holds statistics for the Value History Table.
type ValueHistoryStats struct {
	// Allocations is the number of slots created.
	Allocations uint64 `json:"allocations"`
	// Evictions is the number of live slots discarded by a tag conflict.
	Evictions uint64 `json:"evictions"`
	// Promotions is the number of hits moved to the front of a history.
	Promotions uint64 `json:"promotions"`
	// Insertions is the number of values pushed after a miss.
	Insertions uint64 `json:"insertions"`
	// Drops is the number of values pushed out of a full history.
	Drops uint64 `json:"drops"`
}

// ValueHistoryTable is a direct-mapped table of per-address value
// histories. Each slot keeps up to depth values in recency order.
type ValueHistoryTable struct {
	// Akita directory for tag/valid management: one way, one-byte blocks,
	// so the set index is addr & mask and the tag is the full address.
	directory *akitacache.DirectoryImpl

	// Histories indexed by set ID.
	histories []*simplelru.LRU

	depth int
	mask  uint64

	stats ValueHistoryStats
}

// NewValueHistoryTable creates a table with 2^indexBits slots, each
// holding up to depth values.
func NewValueHistoryTable(indexBits uint, depth int) *ValueHistoryTable {
	if depth < 1 {
		panic(fmt.Sprintf("predictor: history depth must be > 0, got %d", depth))
	}

	numSets := 1 << indexBits

	return &ValueHistoryTable{
		directory: akitacache.NewDirectory(
			numSets,
			1,
			1,
			akitacache.NewLRUVictimFinder(),
		),
		histories: make([]*simplelru.LRU, numSets),
		depth:     depth,
		mask:      uint64(numSets) - 1,
	}
}

// Index returns the slot addr maps to.
func (t *ValueHistoryTable) Index(addr uint64) uint64 {
	return addr & t.mask
}

// Size returns the number of slots.
func (t *ValueHistoryTable) Size() uint64 {
	return t.mask + 1
}

// Depth returns the maximum history length.
func (t *ValueHistoryTable) Depth() int {
	return t.depth
}

// Stats returns the table statistics.
func (t *ValueHistoryTable) Stats() ValueHistoryStats {
	return t.stats
}

func (t *ValueHistoryTable) lookup(addr uint64) *simplelru.LRU {
	block := t.directory.Lookup(0, addr)
	if block == nil || !block.IsValid {
		return nil
	}
	return t.histories[block.SetID]
}

// Claim makes sure the slot for addr is tagged with addr. A slot held by
// another address is evicted first. When the slot had to be created it is
// seeded with v and Claim returns true.
func (t *ValueHistoryTable) Claim(addr uint64, v values.Value) bool {
	if block := t.directory.Lookup(0, addr); block != nil && block.IsValid {
		t.directory.Visit(block)
		return false
	}

	victim := t.directory.FindVictim(addr)
	if victim.IsValid {
		t.stats.Evictions++
	}

	victim.Tag = addr
	victim.IsValid = true
	t.directory.Visit(victim)

	history, err := simplelru.NewLRU(t.depth, func(_, _ interface{}) {
		t.stats.Drops++
	})
	if err != nil {
		panic(err)
	}
	history.Add(v.Key(), v)
	t.histories[victim.SetID] = history
	t.stats.Allocations++

	return true
}

// Contains reports whether the history of addr holds a value equal to v.
// It does not change recency.
func (t *ValueHistoryTable) Contains(addr uint64, v values.Value) bool {
	history := t.lookup(addr)
	if history == nil {
		return false
	}
	return history.Contains(v.Key())
}

// Promote moves v to the front of the history of addr.
func (t *ValueHistoryTable) Promote(addr uint64, v values.Value) {
	history := t.lookup(addr)
	if history == nil {
		return
	}
	if _, ok := history.Get(v.Key()); ok {
		t.stats.Promotions++
	}
}

// Push inserts v at the front of the history of addr, dropping the oldest
// value when the history is full.
func (t *ValueHistoryTable) Push(addr uint64, v values.Value) {
	history := t.lookup(addr)
	if history == nil {
		return
	}
	history.Add(v.Key(), v)
	t.stats.Insertions++
}

// History returns the values held for addr, most recent first. It returns
// nil when no slot is tagged with addr.
func (t *ValueHistoryTable) History(addr uint64) []values.Value {
	history := t.lookup(addr)
	if history == nil {
		return nil
	}

	keys := history.Keys()
	result := make([]values.Value, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		v, _ := history.Peek(keys[i])
		result = append(result, v.(values.Value))
	}
	return result
}

// Tag returns the address holding the slot addr maps to, if any.
func (t *ValueHistoryTable) Tag(addr uint64) (uint64, bool) {
	set := t.directory.GetSets()[t.Index(addr)]
	for _, block := range set.Blocks {
		if block.IsValid {
			return block.Tag, true
		}
	}
	return 0, false
}

// Reset invalidates every slot and clears statistics.
func (t *ValueHistoryTable) Reset() {
	t.directory.Reset()
	for i := range t.histories {
		t.histories[i] = nil
	}
	t.stats = ValueHistoryStats{}
}
