package dispatcher

import (
	"fmt"
	"strings"
)

// Operation identifies one capability of the scraper.
type Operation string

// Supported operations, in the order they are advertised to callers.
const (
	OpApp         Operation = "app"
	OpList        Operation = "list"
	OpSearch      Operation = "search"
	OpDeveloper   Operation = "developer"
	OpSuggest     Operation = "suggest"
	OpReviews     Operation = "reviews"
	OpSimilar     Operation = "similar"
	OpPermissions Operation = "permissions"
	OpDataSafety  Operation = "datasafety"
	OpCategories  Operation = "categories"
)

var operations = []Operation{
	OpApp,
	OpList,
	OpSearch,
	OpDeveloper,
	OpSuggest,
	OpReviews,
	OpSimilar,
	OpPermissions,
	OpDataSafety,
	OpCategories,
}

// Operations returns every supported operation in canonical order.
func Operations() []Operation {
	return append([]Operation(nil), operations...)
}

// OperationNames returns the supported operation names in canonical order.
func OperationNames() []string {
	names := make([]string, len(operations))
	for i, op := range operations {
		names[i] = string(op)
	}
	return names
}

// ParseOperation maps a caller-supplied name onto the closed set. Matching
// is exact; "App" is not "app".
func ParseOperation(name string) (Operation, error) {
	for _, op := range operations {
		if string(op) == name {
			return op, nil
		}
	}
	return "", &UnsupportedOperationError{Name: name, Supported: OperationNames()}
}

// UnsupportedOperationError is returned for names outside the closed set.
type UnsupportedOperationError struct {
	Name      string
	Supported []string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("Method '%s' not supported", e.Name)
}

// Hint lists the valid names, for log lines and CLI output.
func (e *UnsupportedOperationError) Hint() string {
	return "supported methods: " + strings.Join(e.Supported, ", ")
}
