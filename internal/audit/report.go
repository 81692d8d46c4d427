package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	reportHeaderTemplateConstant      = "Found %d unrecognized %s from `%s`:\n"
	vulnerabilitySingularConstant     = "vulnerability"
	vulnerabilityPluralConstant       = "vulnerabilities"
	reportIndentConstant              = "  "
	reportEncodeErrorTemplateConstant = "unable to encode unrecognized findings: %w"
)

// RenderReport formats the gate failure message followed by the findings as an indented JSON array.
func RenderReport(findings []Finding, auditTool string) ([]byte, error) {
	reportBuffer := &bytes.Buffer{}
	fmt.Fprintf(reportBuffer, reportHeaderTemplateConstant, len(findings), vulnerabilityNoun(len(findings)), auditTool)

	encoder := json.NewEncoder(reportBuffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", reportIndentConstant)
	if encodeError := encoder.Encode(findings); encodeError != nil {
		return nil, fmt.Errorf(reportEncodeErrorTemplateConstant, encodeError)
	}

	return reportBuffer.Bytes(), nil
}

func vulnerabilityNoun(count int) string {
	if count == 1 {
		return vulnerabilitySingularConstant
	}
	return vulnerabilityPluralConstant
}
