// Package site assembles the static website from its sources.
//
// Pages containing a header or footer marker get the shared components injected, their
// navigation entry marked active and their local asset references fingerprinted. Every other
// page only receives placeholder substitution. Asset and component folders are copied as-is.
package site
