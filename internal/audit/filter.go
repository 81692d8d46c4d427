package audit

// Flatten concatenates the resolves of every action in document order.
func Flatten(document Document) []Finding {
	findingCount := 0
	for _, action := range document.Actions {
		findingCount += len(action.Resolves)
	}

	flattened := make([]Finding, 0, findingCount)
	for _, action := range document.Actions {
		flattened = append(flattened, action.Resolves...)
	}
	return flattened
}

// Filter returns the findings whose path is not accepted by allowedPaths.
//
// Matching is exact string equality. Order and duplicates are preserved and the document is not modified.
func Filter(document Document, allowedPaths PathMatcher) []Finding {
	return excludeAllowed(Flatten(document), allowedPaths)
}

func excludeAllowed(findings []Finding, allowedPaths PathMatcher) []Finding {
	unrecognized := make([]Finding, 0, len(findings))
	for _, finding := range findings {
		if allowedPaths != nil && allowedPaths.Contains(finding.Path) {
			continue
		}
		unrecognized = append(unrecognized, finding)
	}
	return unrecognized
}
