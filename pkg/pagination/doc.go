// Package pagination walks Hub'Eau paginated endpoints and accumulates their
// records into a single table.
//
// Hub'Eau caps every response at a page size (5000 records) and, for the
// water-quality analysis family, also refuses date ranges that are too broad.
// This package implements both workarounds:
//
//	fetcher := pagination.NewFetcher(hubeauClient, pagination.DefaultConfig())
//	stations, err := fetcher.FetchAll(ctx, "etat_piscicole/stations", params)
//	analyses, err := fetcher.FetchByYearRange(ctx, "qualite_rivieres/analyse_pc", params, 1997, 2024)
//
// FetchAll:
//   - requests page=1,2,... with size=PageSize on a copy of the caller's params
//   - stops on an empty page, or after accumulating a short page
//   - waits on the configured Pacer between full pages
//   - aborts on the first error, returning no partial table
//
// FetchByYearRange:
//   - splits [start-01-01, end-12-31] into calendar-year windows
//   - injects date_debut_prelevement/date_fin_prelevement and delegates each
//     window to FetchAll, strictly in chronological order
//   - on an empty window, stops (StopOnEmpty) or moves on (SkipEmpty)
//
// Requests are issued sequentially; nothing is cached between calls.
package pagination
