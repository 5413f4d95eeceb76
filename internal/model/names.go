package model

import "golang.org/x/text/unicode/norm"

// CanonicalName returns the NFC form of a column or variable name.
// Names that differ only in Unicode composition map to the same column.
func CanonicalName(s string) string {
	return norm.NFC.String(s)
}

// VariableName is the session-level variable for one property value:
// "<display name>_<value literal>".
func VariableName(displayName, value string) string {
	return CanonicalName(displayName + "_" + value)
}
