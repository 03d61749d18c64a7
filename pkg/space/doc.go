// Package space implements the ordered, indentation-based key/value tree
// that scraps pages are stored in.
//
// A space maps keys to either a string or a nested space and remembers
// declaration order. Its text form is line oriented:
//
//	title Hello world
//	header
//	 type h1
//	 content Welcome
//	body
//	 content
//	  first line
//	  second line
//
// A line holding only a key opens a nested space whose entries are
// indented by one more space. A key followed by a single space and
// nothing else opens a multi-line string; its lines are indented by one
// more space. Everything after the first space on any other line is the
// value.
//
// Serialization is stable: String produces text that Parse turns back
// into an equal space. Loop expansion in the render package depends on
// this round trip.
package space
