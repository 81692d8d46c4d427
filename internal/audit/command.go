package audit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/auditgate/internal/allowlist"
)

const (
	commandUseConstant                      = "filter"
	commandShortDescriptionConstant         = "Filter accepted findings out of an npm audit report"
	commandLongDescriptionConstant          = "filter reads an npm audit JSON report from standard input, removes findings whose dependency chain is on the embedded allow list, and exits with status 1 when unrecognized findings remain."
	auditToolFlagNameConstant               = "audit-tool"
	auditToolFlagUsageConstant              = "Name of the audit tool quoted in the failure message."
	reportUnusedFlagNameConstant            = "report-unused"
	reportUnusedFlagUsageConstant           = "Log a warning for each allow list entry that matched no finding."
	unexpectedArgumentsErrorMessageConstant = "filter reads standard input and does not accept positional arguments"
	allowListLoadErrorTemplateConstant      = "unable to load allow list: %w"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current filter configuration.
type ConfigurationProvider func() CommandConfiguration

// AllowListProvider returns the allow list applied to the report.
type AllowListProvider func() (allowlist.List, error)

// CommandBuilder assembles the filtering cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	AllowListProvider     AllowListProvider
}

// Build constructs the cobra command that filters an audit report read from standard input.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.Run,
	}

	builder.BindFlags(command)

	return command, nil
}

// BindFlags attaches the filtering flags to command so another command can host the filter.
func (builder *CommandBuilder) BindFlags(command *cobra.Command) {
	if command == nil {
		return
	}
	command.Flags().String(auditToolFlagNameConstant, "", auditToolFlagUsageConstant)
	command.Flags().Bool(reportUnusedFlagNameConstant, false, reportUnusedFlagUsageConstant)
}

// Run executes a filtering pass over the command's standard input.
func (builder *CommandBuilder) Run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	allowList, allowListError := builder.resolveAllowList()
	if allowListError != nil {
		return fmt.Errorf(allowListLoadErrorTemplateConstant, allowListError)
	}

	service := NewService(allowList, builder.resolveLogger(), command.InOrStdin(), command.OutOrStdout())
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (CommandOptions, error) {
	configuration := builder.resolveConfiguration()

	auditToolValue := configuration.AuditTool
	if command.Flags().Changed(auditToolFlagNameConstant) {
		auditToolFlagValue, auditToolFlagError := command.Flags().GetString(auditToolFlagNameConstant)
		if auditToolFlagError != nil {
			return CommandOptions{}, auditToolFlagError
		}
		if trimmedFlagValue := strings.TrimSpace(auditToolFlagValue); len(trimmedFlagValue) > 0 {
			auditToolValue = trimmedFlagValue
		}
	}

	reportUnusedValue := configuration.ReportUnused
	if command.Flags().Changed(reportUnusedFlagNameConstant) {
		reportUnusedFlagValue, reportUnusedFlagError := command.Flags().GetBool(reportUnusedFlagNameConstant)
		if reportUnusedFlagError != nil {
			return CommandOptions{}, reportUnusedFlagError
		}
		reportUnusedValue = reportUnusedFlagValue
	}

	return CommandOptions{
		AuditTool:    auditToolValue,
		ReportUnused: reportUnusedValue,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.sanitize()
}

func (builder *CommandBuilder) resolveAllowList() (allowlist.List, error) {
	if builder.AllowListProvider == nil {
		return allowlist.Embedded()
	}
	return builder.AllowListProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
