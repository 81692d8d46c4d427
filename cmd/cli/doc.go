// Package cli constructs the auditgate command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives. The root command runs the allow-list filter over standard input
// so the binary can sit directly behind `npm audit --json` in a build gate.
package cli
