package domain

// MaxDraftPriority is the highest priority the generation output parser
// will accept on a draft.
const MaxDraftPriority = 3

// ImportantPriorityThreshold is the draft priority at or above which a
// persisted task is flagged important.
const ImportantPriorityThreshold = 2

// TaskDraft is an unpersisted task candidate produced by the generation
// output parser. Drafts are consumed by the task repository, which assigns
// IDs and positions when persisting them.
type TaskDraft struct {
	Title       string
	Description string

	// Status is a stage key; the parser guarantees it is a member of the
	// stage set it was configured with.
	Status string

	// Priority is a 0-3 integer; 0 is the default.
	Priority int
}

// Important reports whether a task created from this draft should carry the
// importance flag.
func (d TaskDraft) Important() bool {
	return d.Priority >= ImportantPriorityThreshold
}
