package audit

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"

	"github.com/temirov/auditgate/internal/allowlist"
)

const (
	inputReadErrorTemplateConstant    = "unable to read audit input: %w"
	inputDecodeErrorTemplateConstant  = "unable to decode audit input as UTF-8: %w"
	reportWriteErrorTemplateConstant  = "unable to write report: %w"
	logMessageInputReadConstant       = "audit input read"
	logMessageFilteredConstant        = "audit findings filtered"
	logMessageUnusedEntryConstant     = "allow list entry matched no finding"
	logFieldRunIdentifierConstant     = "run_id"
	logFieldInputBytesConstant        = "input_bytes"
	logFieldFindingCountConstant      = "finding_count"
	logFieldUnrecognizedCountConstant = "unrecognized_count"
	logFieldAllowListSizeConstant     = "allow_list_size"
	logFieldPathConstant              = "path"
	logFieldAdvisoryConstant          = "advisory_url"
)

// Service reads one audit report, removes accepted findings, and reports the remainder.
type Service struct {
	allowList              allowlist.List
	logger                 *zap.Logger
	inputReader            io.Reader
	outputWriter           io.Writer
	runIdentifierGenerator func() string
}

// NewService constructs a Service using the provided dependencies.
func NewService(allowList allowlist.List, logger *zap.Logger, inputReader io.Reader, outputWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		allowList:              allowList,
		logger:                 logger,
		inputReader:            inputReader,
		outputWriter:           outputWriter,
		runIdentifierGenerator: uuid.NewString,
	}
}

// Run performs a single filtering pass.
//
// It returns UsageError for empty input, StructuralError for input that is not an audit document,
// and UnrecognizedFindingsError after writing the report when unaccepted findings remain.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	runLogger := service.logger.With(zap.String(logFieldRunIdentifierConstant, service.runIdentifierGenerator()))

	rawInput, readError := io.ReadAll(service.inputReader)
	if readError != nil {
		return fmt.Errorf(inputReadErrorTemplateConstant, readError)
	}
	runLogger.Debug(logMessageInputReadConstant, zap.Int(logFieldInputBytesConstant, len(rawInput)))

	if len(rawInput) == 0 {
		return UsageError{}
	}

	if contextError := executionContext.Err(); contextError != nil {
		return contextError
	}

	decodedInput, decodeError := unicode.UTF8.NewDecoder().Bytes(rawInput)
	if decodeError != nil {
		return fmt.Errorf(inputDecodeErrorTemplateConstant, decodeError)
	}

	document, parseError := ParseDocument(decodedInput)
	if parseError != nil {
		return parseError
	}

	flattened := Flatten(document)
	unrecognized := excludeAllowed(flattened, service.allowList.Paths())

	runLogger.Debug(
		logMessageFilteredConstant,
		zap.Int(logFieldFindingCountConstant, len(flattened)),
		zap.Int(logFieldUnrecognizedCountConstant, len(unrecognized)),
		zap.Int(logFieldAllowListSizeConstant, service.allowList.Len()),
	)

	if options.ReportUnused {
		service.reportUnusedEntries(runLogger, flattened)
	}

	if len(unrecognized) == 0 {
		return nil
	}

	report, renderError := RenderReport(unrecognized, options.AuditTool)
	if renderError != nil {
		return renderError
	}

	if _, writeError := service.outputWriter.Write(report); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}

	return UnrecognizedFindingsError{Count: len(unrecognized)}
}

func (service *Service) reportUnusedEntries(runLogger *zap.Logger, findings []Finding) {
	observedPaths := make([]string, 0, len(findings))
	for _, finding := range findings {
		observedPaths = append(observedPaths, finding.Path)
	}

	for _, unusedEntry := range service.allowList.Unused(observedPaths) {
		runLogger.Warn(
			logMessageUnusedEntryConstant,
			zap.String(logFieldPathConstant, unusedEntry.Path),
			zap.String(logFieldAdvisoryConstant, unusedEntry.AdvisoryURL),
		)
	}
}
