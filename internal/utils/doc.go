// Package utils exposes reusable helpers consumed by the auditgate commands.
//
// ConfigurationLoader layers embedded defaults, configuration files, and
// environment variables through Viper; LoggerFactory builds zap loggers that
// keep diagnostics off standard output.
package utils
