package evalreport

import "iter"

// DefaultSuccessScoreName is the score that marks an item as passing when it equals 1.0
const DefaultSuccessScoreName = "did_item_pass"

// Score is a single named evaluation score attached to a trace
type Score struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Scores is an insertion ordered mapping from score name to value.
// Setting an existing name replaces the value but keeps its position.
type Scores struct {
	entries []Score
	index   map[string]int
}

// NewScores builds a Scores from the given scores in order
func NewScores(scores ...Score) Scores {
	var s Scores
	for _, score := range scores {
		s.Set(score.Name, score.Value)
	}
	return s
}

// Set records a value for name
func (s *Scores) Set(name string, value float64) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.entries[i].Value = value
		return
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Score{Name: name, Value: value})
}

// Get returns the value recorded for name, if any
func (s Scores) Get(name string) (float64, bool) {
	i, ok := s.index[name]
	if !ok {
		return 0, false
	}
	return s.entries[i].Value, true
}

// Len returns the number of distinct score names
func (s Scores) Len() int {
	return len(s.entries)
}

// All iterates over scores in insertion order
func (s Scores) All() iter.Seq2[string, float64] {
	return func(yield func(string, float64) bool) {
		for _, e := range s.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// EvaluationItem is one dataset item's outcome within a run
type EvaluationItem struct {
	Name            string
	TraceID         string
	Cost            *float64 // nil when the platform reported no cost
	DurationSeconds float64
	Scores          Scores
}

// Passed reports whether the success score is present and exactly 1.0
func (i EvaluationItem) Passed(successScoreName string) bool {
	v, ok := i.Scores.Get(successScoreName)
	return ok && v == 1.0
}

// RunResult is a fetched dataset run with its items in fetch order
type RunResult struct {
	DatasetName string
	RunName     string
	Items       []EvaluationItem
}

// ScoreAggregate summarises one score name across all items that carry it
type ScoreAggregate struct {
	Name  string
	Sum   float64
	Count int
	Avg   float64
}

// AggregateScores computes per-score statistics in first-seen order.
// Items missing a score are excluded from that score's aggregate.
func AggregateScores(items []EvaluationItem) []ScoreAggregate {
	var aggregates []ScoreAggregate
	positions := make(map[string]int)

	for _, item := range items {
		for name, value := range item.Scores.All() {
			i, ok := positions[name]
			if !ok {
				i = len(aggregates)
				positions[name] = i
				aggregates = append(aggregates, ScoreAggregate{Name: name})
			}
			aggregates[i].Sum += value
			aggregates[i].Count++
		}
	}

	for i := range aggregates {
		aggregates[i].Avg = aggregates[i].Sum / float64(aggregates[i].Count)
	}

	return aggregates
}
