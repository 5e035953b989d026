// Package repair decides which text runs belong together and makes it so:
// a geometry-driven candidate finder, a chain validator, a merge executor
// that splices characters between backing elements, and a clone-based
// splitter for runs that were never one text to begin with.
//
// All decisions run on the layout package's parsed model; every edit keeps
// the model and the element tree consistent, so passes can be sequenced
// freely by the caller.
package repair
