package dataset

import (
	"math/rand"

	internal "github.com/ZanzyTHEbar/go-sentiment/sentiment"
)

// Batch is a group of examples laid out for mean-pooled embedding lookup:
// one flat id buffer plus a start offset per example. Offsets[i] marks where
// example i begins in IDs; example i spans IDs[Offsets[i]:Offsets[i+1]] (the
// last example runs to the end). Empty examples carry a single <pad> id so
// every example owns at least one row of the embedding table.
type Batch struct {
	IDs     []int64
	Offsets []int
	Labels  []int
}

// Size returns the number of examples in the batch.
func (b Batch) Size() int {
	return len(b.Offsets)
}

// Bounds returns the [start, end) range of example i within IDs.
func (b Batch) Bounds(i int) (int, int) {
	start := b.Offsets[i]
	end := len(b.IDs)
	if i+1 < len(b.Offsets) {
		end = b.Offsets[i+1]
	}
	return start, end
}

// Batch assembles the examples at the given dataset indices.
func (d *Dataset) Batch(indices []int) Batch {
	b := Batch{
		Offsets: make([]int, 0, len(indices)),
		Labels:  make([]int, 0, len(indices)),
	}
	for _, idx := range indices {
		ex := d.Examples[idx]
		b.Offsets = append(b.Offsets, len(b.IDs))
		if len(ex.IDs) == 0 {
			b.IDs = append(b.IDs, internal.PaddingID)
		} else {
			b.IDs = append(b.IDs, ex.IDs...)
		}
		b.Labels = append(b.Labels, ex.Label)
	}
	return b
}

// Batches cuts the whole dataset into batches of batchSize. When rng is
// non-nil the example order is shuffled first; the final short batch is
// kept. Dataset contents are never mutated.
func (d *Dataset) Batches(batchSize int, rng *rand.Rand) []Batch {
	if batchSize <= 0 {
		batchSize = 1
	}

	order := make([]int, d.Len())
	for i := range order {
		order[i] = i
	}
	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	var batches []Batch
	for start := 0; start < len(order); start += batchSize {
		end := min(start+batchSize, len(order))
		batches = append(batches, d.Batch(order[start:end]))
	}
	return batches
}

// PadTo returns example ids padded (or truncated) to fixed length with the
// reserved <pad> id, for callers that need rectangular batches.
func PadTo(ids []int64, length int) []int64 {
	out := make([]int64, length)
	for i := range out {
		if i < len(ids) {
			out[i] = ids[i]
		} else {
			out[i] = internal.PaddingID
		}
	}
	return out
}
