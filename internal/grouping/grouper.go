package grouping

import (
	"fmt"

	"eegitpc/domain/eeg"
)

// Bucket holds the trials of one (condition, electrode) pair in source order
type Bucket struct {
	Condition eeg.Condition
	Electrode int
	Trials    []eeg.Trial
}

// Key identifies the bucket as "GN/7"
func (b Bucket) Key() string {
	return fmt.Sprintf("%s/%d", b.Condition.Code, b.Electrode)
}

// Buckets is the full condition x electrode partition. Order is condition
// order from the set, then electrode 1..E. Empty buckets are kept.
type Buckets struct {
	buckets    []Bucket
	index      map[string]map[int]int
	electrodes int

	// Excluded counts trials whose stimulus lies outside every condition
	Excluded int
	// StrayElectrode counts in-range trials whose electrode is outside 1..E
	StrayElectrode int
}

// Group partitions trials by inclusive stimulus range, then by electrode
func Group(trials []eeg.Trial, conditions *eeg.ConditionSet, numElectrodes int) *Buckets {
	conds := conditions.Conditions()
	b := &Buckets{
		buckets:    make([]Bucket, 0, len(conds)*numElectrodes),
		index:      make(map[string]map[int]int, len(conds)),
		electrodes: numElectrodes,
	}
	for _, c := range conds {
		b.index[c.Code] = make(map[int]int, numElectrodes)
		for e := 1; e <= numElectrodes; e++ {
			b.index[c.Code][e] = len(b.buckets)
			b.buckets = append(b.buckets, Bucket{Condition: c, Electrode: e})
		}
	}

	for _, trial := range trials {
		cond, ok := conditions.Classify(trial.Stimulus)
		if !ok {
			b.Excluded++
			continue
		}
		i, ok := b.index[cond.Code][trial.Electrode]
		if !ok {
			b.StrayElectrode++
			continue
		}
		b.buckets[i].Trials = append(b.buckets[i].Trials, trial)
	}
	return b
}

// All returns every bucket in partition order
func (b *Buckets) All() []Bucket {
	return b.buckets
}

// Len returns the number of buckets, empty ones included
func (b *Buckets) Len() int {
	return len(b.buckets)
}

// Get returns the bucket for a condition code and electrode
func (b *Buckets) Get(code string, electrode int) (Bucket, bool) {
	byElectrode, ok := b.index[code]
	if !ok {
		return Bucket{}, false
	}
	i, ok := byElectrode[electrode]
	if !ok {
		return Bucket{}, false
	}
	return b.buckets[i], true
}

// Empty lists the keys of buckets with no trials
func (b *Buckets) Empty() []string {
	var keys []string
	for _, bucket := range b.buckets {
		if len(bucket.Trials) == 0 {
			keys = append(keys, bucket.Key())
		}
	}
	return keys
}

// Assigned counts trials placed in some bucket
func (b *Buckets) Assigned() int {
	n := 0
	for _, bucket := range b.buckets {
		n += len(bucket.Trials)
	}
	return n
}

// Electrodes returns E
func (b *Buckets) Electrodes() int {
	return b.electrodes
}
