package allowlist

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	commandUseConstant                      = "allowlist"
	commandShortDescriptionConstant         = "Print the embedded allow list"
	commandLongDescriptionConstant          = "allowlist prints every reviewed dependency chain compiled into auditgate, with its advisory and justification."
	unexpectedArgumentsErrorMessageConstant = "allowlist does not accept positional arguments"
	listLoadErrorTemplateConstant           = "unable to load allow list: %w"
	listEncodeErrorTemplateConstant         = "unable to print allow list: %w"
	yamlIndentConstant                      = 2
	logMessagePrintedConstant               = "allow list printed"
	logFieldEntryCountConstant              = "entry_count"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ListProvider returns the allow list the command should print.
type ListProvider func() (List, error)

// CommandBuilder assembles the allowlist cobra command.
type CommandBuilder struct {
	LoggerProvider LoggerProvider
	ListProvider   ListProvider
}

// Build constructs the allowlist command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	list, listError := builder.resolveList()
	if listError != nil {
		return fmt.Errorf(listLoadErrorTemplateConstant, listError)
	}

	encoder := yaml.NewEncoder(command.OutOrStdout())
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(document{Entries: list.Entries()}); encodeError != nil {
		return fmt.Errorf(listEncodeErrorTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(listEncodeErrorTemplateConstant, closeError)
	}

	builder.resolveLogger().Debug(logMessagePrintedConstant, zap.Int(logFieldEntryCountConstant, list.Len()))
	return nil
}

func (builder *CommandBuilder) resolveList() (List, error) {
	if builder.ListProvider == nil {
		return Embedded()
	}
	return builder.ListProvider()
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
