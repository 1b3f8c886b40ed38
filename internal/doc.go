// internal is internal packages for topodown.
//
// The data flows topology -> pivot -> view -> export/endpoint.
// topology, pivot and view are pure; they do no I/O.
// feed fetches the documents and publishes a snapshot into the store,
// and endpoint and mcp read the snapshot from the store.
//
// Dependencies between packages with side effects are implemented as interfaces like feed.Reporter.
//
// The topoerr package and the testutil package are exception cases for this rule.
// These packages are used by other packages.
package internal
