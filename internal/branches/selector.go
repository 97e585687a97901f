package branches

import (
	"errors"
	"regexp"
)

const (
	noMatchingBranchMessageConstant = "no branch found matching zfs-x.y.z-cachyos pattern"
)

// CachyOSBranchPattern matches the whole name zfs-<major>.<minor>.<patch>-cachyos with decimal components.
var CachyOSBranchPattern = regexp.MustCompile(`^zfs-[0-9]+\.[0-9]+\.[0-9]+-cachyos$`)

// ErrNoMatchingBranch indicates that no branch name satisfied the naming pattern.
var ErrNoMatchingBranch = errors.New(noMatchingBranchMessageConstant)

// Selector picks the greatest branch name matching a pattern under an Ordering.
type Selector struct {
	pattern  *regexp.Regexp
	ordering Ordering
}

// NewSelector constructs a Selector; nil arguments fall back to CachyOSBranchPattern and DefaultOrdering.
func NewSelector(pattern *regexp.Regexp, ordering Ordering) *Selector {
	if pattern == nil {
		pattern = CachyOSBranchPattern
	}
	if ordering == nil {
		ordering = DefaultOrdering()
	}
	return &Selector{pattern: pattern, ordering: ordering}
}

// Ordering reports the strategy used to rank matches.
func (selector *Selector) Ordering() Ordering {
	return selector.ordering
}

// MatchingBranches returns the names satisfying the pattern, preserving input order.
func (selector *Selector) MatchingBranches(branchNames []string) []string {
	var matchingNames []string
	for _, branchName := range branchNames {
		if selector.pattern.MatchString(branchName) {
			matchingNames = append(matchingNames, branchName)
		}
	}
	return matchingNames
}

// SelectLatest returns the matching name that no other match outranks, or ErrNoMatchingBranch.
// Among equal names the first occurrence wins.
func (selector *Selector) SelectLatest(branchNames []string) (string, error) {
	matchingNames := selector.MatchingBranches(branchNames)
	if len(matchingNames) == 0 {
		return "", ErrNoMatchingBranch
	}

	latestName := matchingNames[0]
	for _, candidateName := range matchingNames[1:] {
		if selector.ordering.Less(latestName, candidateName) {
			latestName = candidateName
		}
	}
	return latestName, nil
}

// SelectLatest applies the default selector to branchNames.
func SelectLatest(branchNames []string) (string, error) {
	return NewSelector(nil, nil).SelectLatest(branchNames)
}
