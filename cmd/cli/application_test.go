package cli_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/temirov/auditgate/cmd/cli"
	"github.com/temirov/auditgate/internal/audit"
)

const (
	testAllowedPathConstant           = "webpack-dev-server>http-proxy-middleware"
	testUnrecognizedPathConstant      = "lodash>merge"
	testAllowedDocumentConstant       = `{"actions":[{"resolves":[{"path":"webpack-dev-server>http-proxy-middleware"}]}]}`
	testMixedDocumentConstant         = `{"actions":[{"resolves":[{"path":"webpack-dev-server>http-proxy-middleware"},{"path":"lodash>merge","id":1}]}]}`
	testAuditToolEnvironmentConstant  = "AUDITGATE_TOOLS_FILTER_AUDIT_TOOL"
	testLogLevelEnvironmentConstant   = "AUDITGATE_COMMON_LOG_LEVEL"
	testConfigurationFileNameConstant = "config.yaml"
	testFilterCommandNameConstant     = "filter"
	testAllowListCommandNameConstant  = "allowlist"
	testExpectedMixedReportConstant   = "Found 1 unrecognized vulnerability from `npm audit`:\n" +
		"[\n" +
		"  {\n" +
		"    \"path\": \"lodash>merge\",\n" +
		"    \"id\": 1\n" +
		"  }\n" +
		"]\n"
)

type executionResult struct {
	standardOutput string
	standardError  string
	err            error
}

func executeApplication(testInstance *testing.T, input string, arguments ...string) executionResult {
	testInstance.Helper()

	application := cli.NewApplication()
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}

	rootCommand := application.Command()
	rootCommand.SetArgs(arguments)
	rootCommand.SetIn(strings.NewReader(input))
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(errorBuffer)

	executionError := application.Execute()

	return executionResult{
		standardOutput: outputBuffer.String(),
		standardError:  errorBuffer.String(),
		err:            executionError,
	}
}

func TestEmbeddedDefaultConfigurationDecodes(testInstance *testing.T) {
	configurationData, configurationType := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, configurationData)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(configurationData)))

	var configuration cli.ApplicationConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &configuration,
	})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(viperInstance.AllSettings()))

	require.Equal(testInstance, "error", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	require.Equal(testInstance, audit.DefaultCommandConfiguration(), configuration.Tools.Filter)
}

func TestApplicationFiltersStandardInput(testInstance *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		input          string
		expectedOutput string
		expectedCount  int
	}{
		{
			name:      "AllFindingsAllowed",
			arguments: []string{},
			input:     testAllowedDocumentConstant,
		},
		{
			name:           "UnrecognizedFindingReported",
			arguments:      []string{},
			input:          testMixedDocumentConstant,
			expectedOutput: testExpectedMixedReportConstant,
			expectedCount:  1,
		},
		{
			name:           "FilterSubcommand",
			arguments:      []string{testFilterCommandNameConstant},
			input:          testMixedDocumentConstant,
			expectedOutput: testExpectedMixedReportConstant,
			expectedCount:  1,
		},
		{
			name:      "EmptyActions",
			arguments: []string{},
			input:     `{"actions":[]}`,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result := executeApplication(testInstance, testCase.input, testCase.arguments...)
			require.Equal(testInstance, testCase.expectedOutput, result.standardOutput)
			require.Empty(testInstance, result.standardError)

			if testCase.expectedCount == 0 {
				require.NoError(testInstance, result.err)
				return
			}

			var unrecognizedFindingsError audit.UnrecognizedFindingsError
			require.True(testInstance, errors.As(result.err, &unrecognizedFindingsError))
			require.Equal(testInstance, testCase.expectedCount, unrecognizedFindingsError.Count)
		})
	}
}

func TestApplicationRejectsUnusableInput(testInstance *testing.T) {
	emptyResult := executeApplication(testInstance, "")
	require.Empty(testInstance, emptyResult.standardOutput)
	require.ErrorIs(testInstance, emptyResult.err, audit.UsageError{})
	require.EqualError(testInstance, emptyResult.err, "Usage: npm audit --json | auditgate")

	malformedResult := executeApplication(testInstance, "not json")
	require.Empty(testInstance, malformedResult.standardOutput)
	var structuralError audit.StructuralError
	require.True(testInstance, errors.As(malformedResult.err, &structuralError))
}

func TestApplicationAuditToolLabel(testInstance *testing.T) {
	testInstance.Run("Flag", func(testInstance *testing.T) {
		result := executeApplication(testInstance, testMixedDocumentConstant, "--audit-tool", "yarn audit")
		require.True(testInstance, strings.HasPrefix(result.standardOutput, "Found 1 unrecognized vulnerability from `yarn audit`:\n"))
	})

	testInstance.Run("EnvironmentIgnored", func(testInstance *testing.T) {
		testInstance.Setenv(testAuditToolEnvironmentConstant, "pnpm audit")
		testInstance.Setenv(testLogLevelEnvironmentConstant, "trace")
		result := executeApplication(testInstance, testMixedDocumentConstant)
		require.Equal(testInstance, testExpectedMixedReportConstant, result.standardOutput)
		require.Empty(testInstance, result.standardError)
	})

	testInstance.Run("ConfigurationFile", func(testInstance *testing.T) {
		configurationFilePath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
		require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte("tools:\n  filter:\n    audit_tool: bun audit\n"), 0o600))

		result := executeApplication(testInstance, testMixedDocumentConstant, "--config", configurationFilePath)
		require.True(testInstance, strings.HasPrefix(result.standardOutput, "Found 1 unrecognized vulnerability from `bun audit`:\n"))
	})
}

func TestApplicationDiagnosticsGoToStandardError(testInstance *testing.T) {
	result := executeApplication(testInstance, testAllowedDocumentConstant, "--log-level", "debug", "--report-unused")
	require.NoError(testInstance, result.err)
	require.Empty(testInstance, result.standardOutput)
	require.Contains(testInstance, result.standardError, "configuration initialized")
	require.Contains(testInstance, result.standardError, "allow list entry matched no finding")
	require.NotContains(testInstance, result.standardError, "\"path\":\""+testAllowedPathConstant+"\"")
}

func TestApplicationRejectsUnsupportedLogLevel(testInstance *testing.T) {
	result := executeApplication(testInstance, testAllowedDocumentConstant, "--log-level", "verbose")
	require.Error(testInstance, result.err)
	require.Contains(testInstance, result.err.Error(), "unsupported log level: verbose")
	require.Empty(testInstance, result.standardOutput)
}

func TestApplicationPrintsAllowList(testInstance *testing.T) {
	result := executeApplication(testInstance, "", testAllowListCommandNameConstant)
	require.NoError(testInstance, result.err)
	require.Contains(testInstance, result.standardOutput, testAllowedPathConstant)
	require.NotContains(testInstance, result.standardOutput, testUnrecognizedPathConstant)
}
