package generation

import (
	"fmt"
	"strings"

	"github.com/taipo/kanban-api/internal/domain"
)

// Prompt builders for the generation flows. Every prompt states the exact
// line format the parser expects so the model output stays machine
// readable.

// formatInstructions renders the shared output contract over the
// configured stage keys.
func formatInstructions(stages *domain.StageSet) string {
	keys := strings.Join(stages.Keys(), "|")
	var b strings.Builder
	fmt.Fprintf(&b, "Output one task per line, no numbering, no markdown.\n")
	fmt.Fprintf(&b, "Each line must use the format: [STAGE]: TITLE | DESCRIPTION\n")
	fmt.Fprintf(&b, "STAGE is one of: %s.\n", keys)
	fmt.Fprintf(&b, "A priority from 0 to %d may be appended inside the bracket, for example [%s|2]: TITLE | DESCRIPTION.\n",
		domain.MaxDraftPriority, stages.Initial().Key)
	fmt.Fprintf(&b, "Do not output anything except task lines.")
	return b.String()
}

// ProjectPlanPrompt asks for a complete backlog for a new project.
func ProjectPlanPrompt(projectName, description string, stages *domain.StageSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an experienced product owner planning the project %q.\n", projectName)
	fmt.Fprintf(&b, "Project description:\n%s\n\n", strings.TrimSpace(description))
	b.WriteString("Break the project into concrete, implementable user stories. ")
	b.WriteString("Each story must be self-contained and small enough to finish in a day or two.\n\n")
	b.WriteString(formatInstructions(stages))
	return b.String()
}

// DecomposePrompt asks for a story to be split into subtasks.
func DecomposePrompt(title, description string, stages *domain.StageSet) string {
	var b strings.Builder
	b.WriteString("You are an experienced product owner decomposing a user story into subtasks.\n")
	fmt.Fprintf(&b, "Story title: %s\n", strings.TrimSpace(title))
	fmt.Fprintf(&b, "Story description:\n%s\n\n", strings.TrimSpace(description))
	b.WriteString("Produce between 3 and 5 subtasks that together implement the story. ")
	b.WriteString("Each subtask must be independently testable.\n\n")
	b.WriteString(formatInstructions(stages))
	return b.String()
}

// SpecificationPrompt asks for a project name and backlog to be extracted
// from a free-form specification document.
func SpecificationPrompt(specification string, stages *domain.StageSet) string {
	var b strings.Builder
	b.WriteString("You are an experienced product owner reading a software specification.\n")
	fmt.Fprintf(&b, "Specification:\n%s\n\n", strings.TrimSpace(specification))
	b.WriteString("First output a single line of the form: PROJECT NAME: <short project name>\n")
	b.WriteString("Then extract the concrete, implementable user stories the specification describes.\n\n")
	b.WriteString(formatInstructions(stages))
	return b.String()
}

// CodePrompt asks for an implementation sketch for one task.
func CodePrompt(title, description string) string {
	var b strings.Builder
	b.WriteString("You are a senior software engineer. Write concise, production quality code implementing the task below.\n")
	fmt.Fprintf(&b, "Task title: %s\n", strings.TrimSpace(title))
	fmt.Fprintf(&b, "Task description:\n%s\n\n", strings.TrimSpace(description))
	b.WriteString("Output only the code and short inline comments. Do not wrap the output in markdown fences.")
	return b.String()
}

// QueryPrompt asks a clarifying question about a task on behalf of the
// product owner.
func QueryPrompt(title, description, question string) string {
	var b strings.Builder
	b.WriteString("You are an experienced product owner answering a question about a user story.\n")
	fmt.Fprintf(&b, "Story title: %s\n", strings.TrimSpace(title))
	fmt.Fprintf(&b, "Story description:\n%s\n\n", strings.TrimSpace(description))
	fmt.Fprintf(&b, "Question: %s\n\n", strings.TrimSpace(question))
	b.WriteString("Answer in a few short sentences. Be concrete and avoid restating the story.")
	return b.String()
}
