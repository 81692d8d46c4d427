package audit_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/auditgate/internal/allowlist"
	"github.com/temirov/auditgate/internal/audit"
)

const (
	commandInputConstant           = `{"actions":[{"resolves":[{"path":"A>B"}]}]}`
	commandAuditToolFlagConstant   = "--audit-tool"
	commandCustomAuditToolConstant = "yarn audit"
)

func TestCommandBuilderAuditToolResolution(testInstance *testing.T) {
	testCases := []struct {
		name            string
		configuration   audit.CommandConfiguration
		arguments       []string
		expectedHeading string
	}{
		{
			name:            "DefaultsWhenConfigurationBlank",
			configuration:   audit.CommandConfiguration{AuditTool: "   "},
			arguments:       []string{},
			expectedHeading: "Found 1 unrecognized vulnerability from `npm audit`:",
		},
		{
			name:            "ConfigurationValueUsed",
			configuration:   audit.CommandConfiguration{AuditTool: commandCustomAuditToolConstant},
			arguments:       []string{},
			expectedHeading: "Found 1 unrecognized vulnerability from `yarn audit`:",
		},
		{
			name:            "FlagOverridesConfiguration",
			configuration:   audit.CommandConfiguration{AuditTool: commandCustomAuditToolConstant},
			arguments:       []string{commandAuditToolFlagConstant, "pnpm audit"},
			expectedHeading: "Found 1 unrecognized vulnerability from `pnpm audit`:",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			subTest.Parallel()

			builder := audit.CommandBuilder{
				LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider: func() audit.CommandConfiguration { return testCase.configuration },
				AllowListProvider:     func() (allowlist.List, error) { return allowlist.New(nil) },
			}

			command, buildError := builder.Build()
			require.NoError(subTest, buildError)

			outputBuffer := &strings.Builder{}
			command.SetContext(context.Background())
			command.SetArgs(testCase.arguments)
			command.SetIn(strings.NewReader(commandInputConstant))
			command.SetOut(outputBuffer)
			command.SetErr(&strings.Builder{})
			command.SilenceErrors = true
			command.SilenceUsage = true

			executionError := command.Execute()

			var unrecognizedFindingsError audit.UnrecognizedFindingsError
			require.True(subTest, errors.As(executionError, &unrecognizedFindingsError))
			require.Equal(subTest, testCase.expectedHeading, strings.SplitN(outputBuffer.String(), "\n", 2)[0])
		})
	}
}

func TestCommandBuilderRejectsPositionalArguments(testInstance *testing.T) {
	builder := audit.CommandBuilder{}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{"report.json"})
	command.SetIn(strings.NewReader(commandInputConstant))
	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SilenceErrors = true
	command.SilenceUsage = true

	executionError := command.Execute()
	require.EqualError(testInstance, executionError, "filter reads standard input and does not accept positional arguments")
}

func TestCommandBuilderUsesEmbeddedAllowListByDefault(testInstance *testing.T) {
	embeddedList, embeddedError := allowlist.Embedded()
	require.NoError(testInstance, embeddedError)
	require.NotZero(testInstance, embeddedList.Len())

	acceptedPath := embeddedList.Entries()[0].Path
	input := `{"actions":[{"resolves":[{"path":"` + acceptedPath + `"}]}]}`

	builder := audit.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &strings.Builder{}
	command.SetContext(context.Background())
	command.SetArgs([]string{})
	command.SetIn(strings.NewReader(input))
	command.SetOut(outputBuffer)
	command.SetErr(&strings.Builder{})

	require.NoError(testInstance, command.Execute())
	require.Empty(testInstance, outputBuffer.String())
}

func TestCommandBuilderPropagatesAllowListFailure(testInstance *testing.T) {
	builder := audit.CommandBuilder{
		AllowListProvider: func() (allowlist.List, error) {
			return allowlist.List{}, errors.New("broken allow list")
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{})
	command.SetIn(strings.NewReader(commandInputConstant))
	command.SetOut(&strings.Builder{})
	command.SetErr(&strings.Builder{})
	command.SilenceErrors = true
	command.SilenceUsage = true

	executionError := command.Execute()
	require.EqualError(testInstance, executionError, "unable to load allow list: broken allow list")
}
