package audit

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	documentDecodeErrorTemplateConstant    = "unable to decode audit document: %w"
	missingActionsMessageConstant          = "audit document has no actions sequence"
	missingResolvesMessageTemplateConstant = "audit action %d has no resolves sequence"
)

// ParseDocument decodes an audit report and checks that every level the filter traverses is present.
//
// Any failure is returned as a StructuralError; the caller is expected to let it terminate the run.
func ParseDocument(content []byte) (Document, error) {
	var document Document
	if decodeError := json.Unmarshal(content, &document); decodeError != nil {
		return Document{}, StructuralError{cause: fmt.Errorf(documentDecodeErrorTemplateConstant, decodeError)}
	}

	if document.Actions == nil {
		return Document{}, StructuralError{cause: errors.New(missingActionsMessageConstant)}
	}

	for actionIndex, action := range document.Actions {
		if action.Resolves == nil {
			return Document{}, StructuralError{cause: fmt.Errorf(missingResolvesMessageTemplateConstant, actionIndex)}
		}
	}

	return document, nil
}
