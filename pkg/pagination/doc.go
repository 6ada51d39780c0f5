// Package pagination collects all pages of a search-style Mailbox API
// endpoint into a single item sequence.
//
// Pages are fetched strictly one at a time, in page order, with an
// accumulator loop rather than recursion. The two API generations report
// pagination differently: the legacy envelope carries items and pages at the
// top level, the HAL envelope nests items under _embedded and the total page
// count under page.totalPages. The embedded field name is supplied per
// endpoint by the caller, never guessed from the envelope.
//
// Example usage:
//
//	collector := pagination.NewCollector(apiClient, pagination.EnvelopeHAL)
//	items, err := collector.Collect(ctx, "conversations", query, "conversations")
//
// An empty page stops collection immediately; a search with no results
// yields a nil slice, not an error.
package pagination
