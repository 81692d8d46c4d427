package audit

import (
	"bytes"
	"encoding/json"
	"errors"
)

const (
	documentActionsFieldNameConstant = "actions"
	actionResolvesFieldNameConstant  = "resolves"
	findingPathFieldNameConstant     = "path"
	nullFindingMessageConstant       = "audit finding must be an object, got null"
)

var jsonNullLiteral = []byte("null")

// Document is the parsed audit report. Only the actions sequence is consulted.
type Document struct {
	Actions []Action
}

// UnmarshalJSON reads the actions sequence by its exact key; differently cased keys are ignored.
func (document *Document) UnmarshalJSON(content []byte) error {
	document.Actions = nil
	return decodeExactField(content, documentActionsFieldNameConstant, &document.Actions)
}

// Action groups the findings a single remediation would resolve.
type Action struct {
	Resolves []Finding
}

// UnmarshalJSON reads the resolves sequence by its exact key.
func (action *Action) UnmarshalJSON(content []byte) error {
	action.Resolves = nil
	return decodeExactField(content, actionResolvesFieldNameConstant, &action.Resolves)
}

// Finding is a single reported vulnerability occurrence keyed by its dependency chain path.
//
// The original JSON object is retained so every field other than path is emitted unchanged.
type Finding struct {
	Path string
	raw  json.RawMessage
}

// NewFinding constructs a finding carrying only a dependency chain path.
func NewFinding(path string) Finding {
	return Finding{Path: path}
}

// UnmarshalJSON records the dependency chain path and keeps the raw object for pass-through.
func (finding *Finding) UnmarshalJSON(content []byte) error {
	if bytes.Equal(bytes.TrimSpace(content), jsonNullLiteral) {
		return errors.New(nullFindingMessageConstant)
	}

	var path *string
	if decodeError := decodeExactField(content, findingPathFieldNameConstant, &path); decodeError != nil {
		return decodeError
	}

	finding.Path = ""
	if path != nil {
		finding.Path = *path
	}

	duplicatedContent := make(json.RawMessage, len(content))
	copy(duplicatedContent, content)
	finding.raw = duplicatedContent

	return nil
}

// MarshalJSON re-emits the original object, or a path-only object for findings built in code.
func (finding Finding) MarshalJSON() ([]byte, error) {
	if len(finding.raw) > 0 {
		return finding.raw, nil
	}
	return json.Marshal(map[string]string{findingPathFieldNameConstant: finding.Path})
}

// decodeExactField decodes the member of a JSON object named exactly fieldName into target.
//
// Keys are compared verbatim rather than case-folded. A missing member leaves target untouched.
func decodeExactField(content []byte, fieldName string, target any) error {
	var fields map[string]json.RawMessage
	if decodeError := json.Unmarshal(content, &fields); decodeError != nil {
		return decodeError
	}

	fieldContent, fieldPresent := fields[fieldName]
	if !fieldPresent {
		return nil
	}
	return json.Unmarshal(fieldContent, target)
}

// PathMatcher reports whether a dependency chain path has been accepted.
type PathMatcher interface {
	Contains(path string) bool
}

// CommandOptions captures the runtime parameters for a filtering pass.
type CommandOptions struct {
	AuditTool    string
	ReportUnused bool
}
