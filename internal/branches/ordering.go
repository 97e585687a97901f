package branches

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// OrderingLexicographic names the byte-wise string ordering.
	OrderingLexicographic = "lexicographic"

	unsupportedOrderingTemplateConstant = "unsupported branch ordering %q (supported: %s)"
	supportedOrderingsSeparatorConstant = ", "
)

// Ordering ranks branch names; the selector keeps the name no other match outranks.
type Ordering interface {
	Name() string
	Less(left string, right string) bool
}

// LexicographicOrdering compares names byte by byte without interpreting digits.
type LexicographicOrdering struct{}

// Name reports OrderingLexicographic.
func (LexicographicOrdering) Name() string {
	return OrderingLexicographic
}

// Less reports whether left sorts before right as plain strings.
func (LexicographicOrdering) Less(left string, right string) bool {
	return left < right
}

var registeredOrderings = map[string]Ordering{
	OrderingLexicographic: LexicographicOrdering{},
}

// UnsupportedOrderingError reports an ordering name with no registered strategy.
type UnsupportedOrderingError struct {
	Name string
}

// Error lists the supported ordering names.
func (orderingError UnsupportedOrderingError) Error() string {
	return fmt.Sprintf(unsupportedOrderingTemplateConstant, orderingError.Name, strings.Join(SupportedOrderings(), supportedOrderingsSeparatorConstant))
}

// DefaultOrdering returns the lexicographic ordering.
func DefaultOrdering() Ordering {
	return LexicographicOrdering{}
}

// ParseOrdering resolves a configured ordering name. An empty name selects DefaultOrdering.
func ParseOrdering(orderingName string) (Ordering, error) {
	normalizedName := strings.ToLower(strings.TrimSpace(orderingName))
	if len(normalizedName) == 0 {
		return DefaultOrdering(), nil
	}
	ordering, registered := registeredOrderings[normalizedName]
	if !registered {
		return nil, UnsupportedOrderingError{Name: orderingName}
	}
	return ordering, nil
}

// SupportedOrderings lists registered ordering names alphabetically.
func SupportedOrderings() []string {
	orderingNames := make([]string, 0, len(registeredOrderings))
	for orderingName := range registeredOrderings {
		orderingNames = append(orderingNames, orderingName)
	}
	sort.Strings(orderingNames)
	return orderingNames
}
