package allowlist

import _ "embed"

//go:embed allowlist.yaml
var embeddedAllowListContent []byte

// Embedded loads the allow list compiled into the binary.
func Embedded() (List, error) {
	return Load(embeddedAllowListContent)
}

