// Package sgb parses SGB bank CSV exports into incoming rent movements.
// The bank ships two layouts (account statement and transfer list); the
// parser picks the right one by matching column headers.
package sgb

// New returns a parser for SGB exports.
func New() *Parser {
	return &Parser{}
}
