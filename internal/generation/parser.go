package generation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/taipo/kanban-api/internal/domain"
)

// ParseMode selects which of the generation flows the text came from. The
// line grammar is shared; the mode only toggles recognition of the project
// name directive.
type ParseMode int

const (
	// ModeProject parses whole-project bulk generation output.
	ModeProject ParseMode = iota

	// ModeDecompose parses single-story decomposition output, which is
	// expected to be bare "TITLE | DESCRIPTION" or bare description lines.
	ModeDecompose

	// ModeSpecification parses specification-to-project extraction output
	// and additionally recognizes the project name directive.
	ModeSpecification
)

// Parser defaults. The limits are configurable; these values match the
// board's standard configuration.
const (
	DefaultMaxTitleLen       = 80
	DefaultMinDescriptionLen = 6

	// truncationMarker is appended to titles derived from descriptions that
	// were cut at MaxTitleLen.
	truncationMarker = "..."
)

// nameDirectivePrefixes are the tokens, checked in this fixed order, that
// introduce a project name line in specification-extraction mode.
var nameDirectivePrefixes = []string{
	"PROJECT NAME:",
	"PROJECT:",
}

// taggedLine matches "[STAGE]:" and "[STAGE|PRIORITY]:" prefixes.
// The stage token and priority are captured; the remainder of the line is
// the title/description payload.
var taggedLine = regexp.MustCompile(`^\[([A-Za-z]+)(?:\|(\d+))?\]:\s*(.*)$`)

// ParserConfig carries the stage set and length limits the parser validates
// drafts against.
type ParserConfig struct {
	// Stages is the configured stage set; stage tokens in brackets are
	// matched against its keys, and the initial stage is the fallback for
	// plain and unrecognized lines.
	Stages *domain.StageSet

	// MaxTitleLen is the maximum title length in runes. Longer derived
	// titles are truncated with a marker.
	MaxTitleLen int

	// MinDescriptionLen is the minimum description length in runes;
	// shorter candidates are silently discarded.
	MinDescriptionLen int
}

// DefaultParserConfig returns the standard parser configuration over the
// given stage set.
func DefaultParserConfig(stages *domain.StageSet) ParserConfig {
	return ParserConfig{
		Stages:            stages,
		MaxTitleLen:       DefaultMaxTitleLen,
		MinDescriptionLen: DefaultMinDescriptionLen,
	}
}

// ParseResult is the outcome of parsing one blob of generated text.
type ParseResult struct {
	// ProjectName is the name captured from a name directive line. Empty
	// unless the mode was ModeSpecification and a directive was present.
	ProjectName string

	// Drafts are the validated task candidates in input order.
	Drafts []domain.TaskDraft
}

// Parse converts raw generated text into an ordered list of task drafts.
//
// The text is split into lines; blank lines are discarded and each
// remaining line is evaluated independently. Malformed lines are dropped,
// never reported: the worst case is an empty draft list, which callers
// treat as "nothing usable was generated". Given the same input and
// configuration the result is always identical.
func Parse(text string, mode ParseMode, cfg ParserConfig) ParseResult {
	var result ParseResult

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if mode == ModeSpecification {
			if name, ok := parseNameDirective(line); ok {
				if result.ProjectName == "" && name != "" {
					result.ProjectName = name
				}
				continue
			}
		}

		draft, ok := parseTaskLine(line, cfg)
		if !ok {
			continue
		}
		result.Drafts = append(result.Drafts, draft)
	}

	return result
}

// parseNameDirective recognizes a project name directive line and returns
// the captured name with surrounding quotes and whitespace stripped.
func parseNameDirective(line string) (string, bool) {
	upper := strings.ToUpper(line)
	for _, prefix := range nameDirectivePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name := strings.TrimSpace(line[len(prefix):])
			name = strings.Trim(name, `"'`)
			return strings.TrimSpace(name), true
		}
	}
	return "", false
}

// parseTaskLine evaluates one non-blank line against the task grammar.
func parseTaskLine(line string, cfg ParserConfig) (domain.TaskDraft, bool) {
	status := cfg.Stages.Initial().Key
	priority := 0
	payload := line

	if m := taggedLine.FindStringSubmatch(line); m != nil {
		token := strings.ToUpper(m[1])
		if cfg.Stages.Contains(token) {
			status = token
		}
		// An unrecognized stage token falls back to the initial stage
		// rather than failing the line.

		if m[2] != "" {
			if p, err := strconv.Atoi(m[2]); err == nil && p <= domain.MaxDraftPriority {
				priority = p
			}
		}

		payload = m[3]
	}

	title, description := splitTitle(payload)
	description = strings.TrimSpace(description)
	if len([]rune(description)) < cfg.MinDescriptionLen {
		return domain.TaskDraft{}, false
	}

	if title == "" {
		title = deriveTitle(description, cfg.MaxTitleLen)
	} else {
		title = deriveTitle(title, cfg.MaxTitleLen)
	}

	return domain.TaskDraft{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
	}, true
}

// splitTitle splits "TITLE | DESCRIPTION" payloads on the first pipe.
// Lines without a pipe carry only a description; the title is derived from
// it afterwards.
func splitTitle(payload string) (title, description string) {
	before, after, found := strings.Cut(payload, "|")
	if !found {
		return "", payload
	}
	return strings.TrimSpace(before), after
}

// deriveTitle truncates text to maxLen runes, appending the truncation
// marker when anything was cut.
func deriveTitle(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxTitleLen
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + truncationMarker
}
