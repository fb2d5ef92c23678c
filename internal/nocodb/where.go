package nocodb

import (
	"fmt"
	"strings"
)

// Condition is a single comparison in NocoDB's where syntax
type Condition string

// Eq matches rows whose field equals value
func Eq(field string, value any) Condition {
	return Condition(fmt.Sprintf("(%s,eq,%v)", field, value))
}

// And joins conditions with ~and
func And(conds ...Condition) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = string(c)
	}
	return strings.Join(parts, "~and")
}
