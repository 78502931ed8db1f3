package domain

import "fmt"

// Stage keys for the default board layout. Keys are the stable identifiers
// stored on task rows and recognized by the generation output parser;
// display labels are presentation-only configuration.
const (
	StageSprintBacklog  = "SPRINTBACKLOG"
	StageImplementation = "IMPLEMENTATION"
	StageTesting        = "TESTING"
	StageReview         = "REVIEW"
	StageDone           = "DONE"
)

// Stage describes a single column of the workflow.
type Stage struct {
	// Key is the stable, unspaced identifier persisted on task rows.
	Key string

	// DisplayLabel is the human-visible column title (e.g. "IMPLEMENTATION WIP:3").
	DisplayLabel string

	// WIPLimit is the maximum number of tasks permitted concurrently in this
	// stage within a project. Zero means unlimited.
	WIPLimit int
}

// Limited reports whether the stage carries a WIP limit.
func (s Stage) Limited() bool {
	return s.WIPLimit > 0
}

// StageSet is an ordered, immutable collection of stages. The first stage is
// the initial stage for newly created tasks. Lookup is by key only; the
// engine never derives behavior from display labels.
type StageSet struct {
	stages []Stage
	index  map[string]int
}

// NewStageSet builds a StageSet from an ordered list of stages.
// Returns an error if the list is empty, a key repeats, a key is blank,
// or a WIP limit is negative.
func NewStageSet(stages []Stage) (*StageSet, error) {
	if len(stages) == 0 {
		return nil, ErrEmptyStageSet
	}

	index := make(map[string]int, len(stages))
	for i, s := range stages {
		if s.Key == "" {
			return nil, fmt.Errorf("%w: stage %d has no key", ErrValidation, i)
		}
		if s.WIPLimit < 0 {
			return nil, fmt.Errorf("%w: stage %s", ErrInvalidWIPLimit, s.Key)
		}
		if _, dup := index[s.Key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStage, s.Key)
		}
		index[s.Key] = i
	}

	set := &StageSet{
		stages: make([]Stage, len(stages)),
		index:  index,
	}
	copy(set.stages, stages)
	return set, nil
}

// DefaultStageSet returns the standard five-column board configuration.
func DefaultStageSet() *StageSet {
	set, err := NewStageSet([]Stage{
		{Key: StageSprintBacklog, DisplayLabel: "SPRINT BACKLOG"},
		{Key: StageImplementation, DisplayLabel: "IMPLEMENTATION WIP:3", WIPLimit: 3},
		{Key: StageTesting, DisplayLabel: "TESTING WIP:2", WIPLimit: 2},
		{Key: StageReview, DisplayLabel: "REVIEW WIP:2", WIPLimit: 2},
		{Key: StageDone, DisplayLabel: "DONE"},
	})
	if err != nil {
		// The default configuration is static and always valid.
		panic(err)
	}
	return set
}

// Initial returns the first configured stage, the landing column for new tasks.
func (s *StageSet) Initial() Stage {
	return s.stages[0]
}

// Get returns the stage with the given key.
func (s *StageSet) Get(key string) (Stage, bool) {
	i, ok := s.index[key]
	if !ok {
		return Stage{}, false
	}
	return s.stages[i], true
}

// Contains reports whether the key names a configured stage.
func (s *StageSet) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Stages returns the stages in configured order.
func (s *StageSet) Stages() []Stage {
	out := make([]Stage, len(s.stages))
	copy(out, s.stages)
	return out
}

// Keys returns the stage keys in configured order.
func (s *StageSet) Keys() []string {
	keys := make([]string, len(s.stages))
	for i, st := range s.stages {
		keys[i] = st.Key
	}
	return keys
}

// Len returns the number of configured stages.
func (s *StageSet) Len() int {
	return len(s.stages)
}
