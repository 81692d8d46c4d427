package audit

import "strings"

const (
	defaultAuditToolConstant             = "npm audit"
	auditToolConfigurationKeyConstant    = "audit_tool"
	reportUnusedConfigurationKeyConstant = "report_unused"
	configurationKeySeparatorConstant    = "."
)

// CommandConfiguration captures persistent settings for the filtering command.
type CommandConfiguration struct {
	AuditTool    string `mapstructure:"audit_tool"`
	ReportUnused bool   `mapstructure:"report_unused"`
}

// DefaultCommandConfiguration returns baseline configuration values for the filtering command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		AuditTool:    defaultAuditToolConstant,
		ReportUnused: false,
	}
}

// DefaultConfigurationValues returns viper defaults keyed beneath configurationPrefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		qualifyConfigurationKey(configurationPrefix, auditToolConfigurationKeyConstant):    defaults.AuditTool,
		qualifyConfigurationKey(configurationPrefix, reportUnusedConfigurationKeyConstant): defaults.ReportUnused,
	}
}

// sanitize trims whitespace and restores the default audit tool label when unset.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.AuditTool = strings.TrimSpace(configuration.AuditTool)
	if len(sanitized.AuditTool) == 0 {
		sanitized.AuditTool = defaultAuditToolConstant
	}
	return sanitized
}

func qualifyConfigurationKey(configurationPrefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(configurationPrefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
