// Package errors provides structured, actionable error messages for the
// scraps command line and server.
//
// Library packages (space, render, store) return plain Go errors. The
// command line and server translate them into coded errors that carry:
//   - a unique code (e.g., "E002") and category
//   - the page file line the error refers to, with surrounding lines
//   - a hint on how to fix the problem
//
// # Error Categories
//
//   - render: loop templates that fail to expand
//   - parse: malformed page files
//   - store: page lookup and persistence failures
//   - config: scraps.json problems
//   - cli: bad command line input
//
// # Usage
//
//	err := errors.New("E002").
//	    WithLocation("pages/index.space", 12).
//	    Wrap(parseErr)
//
//	fmt.Print(err.Format())
//	// Output:
//	// ERROR E002: Invalid page file
//	//
//	//   pages/index.space:12
//	//
//	//       10 │ header
//	//       11 │  type h1
//	//   →   12 │    content Welcome
//	// ...
package errors
