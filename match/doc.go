// Package match decides whether a free-text search hit plausibly refers to
// a catalog item.
//
// The comparison favors recall over precision: abbreviated or pluralized
// forms of the same name should match, at the accepted cost of occasional
// false positives bounded by the minimum token length.
package match
