package analysis

import "sort"

// KeyCount is one entry of a ranking or distribution.
type KeyCount struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// KeyValue is one entry of a grouped metric.
type KeyValue struct {
	Key   string  `json:"key" yaml:"key"`
	Value float64 `json:"value" yaml:"value"`
}

// rankCounts orders counts descending with ties broken by ascending key and
// keeps the first n entries. n <= 0 keeps everything.
func rankCounts(counts map[string]int, n int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Key < out[j].Key
		}
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// sortedCounts returns counts ordered by key.
func sortedCounts(counts map[string]int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// sortedValues returns values ordered by key.
func sortedValues(m map[string]float64) []KeyValue {
	out := make([]KeyValue, 0, len(m))
	for k, v := range m {
		out = append(out, KeyValue{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
