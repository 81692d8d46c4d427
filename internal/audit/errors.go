package audit

import "fmt"

const (
	usageMessageConstant                      = "Usage: npm audit --json | auditgate"
	structuralErrorPrefixConstant             = "malformed audit input"
	structuralErrorTemplateConstant           = structuralErrorPrefixConstant + ": %v"
	unrecognizedFindingsErrorTemplateConstant = "found %d unrecognized %s"
)

// UsageError reports that the tool was invoked without any input.
type UsageError struct{}

// Error returns the one-line usage message.
func (UsageError) Error() string {
	return usageMessageConstant
}

// StructuralError reports input that could not be traversed as an audit document.
type StructuralError struct {
	cause error
}

// Error describes the underlying decode or traversal failure.
func (structuralError StructuralError) Error() string {
	if structuralError.cause == nil {
		return structuralErrorPrefixConstant
	}
	return fmt.Sprintf(structuralErrorTemplateConstant, structuralError.cause)
}

// Unwrap exposes the underlying failure.
func (structuralError StructuralError) Unwrap() error {
	return structuralError.cause
}

// UnrecognizedFindingsError signals the gate failure after the report has been written.
type UnrecognizedFindingsError struct {
	Count int
}

func (unrecognizedFindingsError UnrecognizedFindingsError) Error() string {
	return fmt.Sprintf(unrecognizedFindingsErrorTemplateConstant, unrecognizedFindingsError.Count, vulnerabilityNoun(unrecognizedFindingsError.Count))
}
