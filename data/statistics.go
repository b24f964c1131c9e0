package data

// Statistics is the min/max/sum/sqsum/count tuple spec.md §3 packs as
// five 64-bit integers for GPU storage. Grounded on the teacher's own
// vm/statistics.go (an execution-statistics accumulator with the same
// merge-by-field shape), repurposed here for cell-value statistics.
type Statistics struct {
	Min   int64
	Max   int64
	Sum   int64
	SqSum uint64
	Count uint32
}

// NewStatisticsFromValue starts an accumulator from a single sample.
func NewStatisticsFromValue(v int64) Statistics {
	return Statistics{
		Min:   v,
		Max:   v,
		Sum:   v,
		SqSum: uint64(v * v),
		Count: 1,
	}
}

// Merge combines a and b field-wise: min of mins, max of maxes,
// component-wise sums (spec.md §3). It is associative and commutative
// (spec.md §8 property 9) because every field it combines is itself
// associative/commutative (min, max, +).
func Merge(a, b Statistics) Statistics {
	if a.Count == 0 {
		return b
	}
	if b.Count == 0 {
		return a
	}
	out := Statistics{
		Sum:   a.Sum + b.Sum,
		SqSum: a.SqSum + b.SqSum,
		Count: a.Count + b.Count,
	}
	if a.Min < b.Min {
		out.Min = a.Min
	} else {
		out.Min = b.Min
	}
	if a.Max > b.Max {
		out.Max = a.Max
	} else {
		out.Max = b.Max
	}
	return out
}

// ToWords packs the tuple into five u64 words for GPU buffer storage,
// in (min,max,sum,sqsum,count) order.
func (s Statistics) ToWords() [5]uint64 {
	return [5]uint64{
		uint64(s.Min), uint64(s.Max), uint64(s.Sum), s.SqSum, uint64(s.Count),
	}
}

// StatisticsFromWords unpacks the five-word GPU buffer form.
func StatisticsFromWords(w [5]uint64) Statistics {
	return Statistics{
		Min:   int64(w[0]),
		Max:   int64(w[1]),
		Sum:   int64(w[2]),
		SqSum: w[3],
		Count: uint32(w[4]),
	}
}

// Mean returns the arithmetic mean, or 0 if no samples were collected.
func (s Statistics) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}
