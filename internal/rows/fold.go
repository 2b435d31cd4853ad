package rows

import "golang.org/x/text/cases"

// foldName returns the case-folded form of a field name. Lookups compare
// folded names so that "Name", "NAME" and "name" resolve to one field.
func foldName(name string) string {
	return cases.Fold().String(name)
}
