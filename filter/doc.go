// Package filter evaluates parsed queries against a database of tagged
// items.
//
// A query is compiled into a single boolean expr-lang program over an item
// environment. The top-level requirements of a query must all hold. A plain
// tag matches an item carrying the tag, or any tag that implies it through
// [Database.Implies]. An exact tag ignores implications.
//
// Functions:
//
//	@any[r...]    at least one requirement holds (false when empty)
//	@all[r...]    every requirement holds (true when empty)
//	@file[name]   the item's file name contains name; the first parameter
//	              must be a plain tag, otherwise the call is false
//	@notags       the item has no tags (alias @untagged)
//
// Any other function name fails compilation with [ErrUnknownFunction].
package filter
