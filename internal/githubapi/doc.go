// Package githubapi lists repository branches through the GitHub REST API.
//
// BranchListingService walks the paginated branches endpoint page by page,
// stopping at the first empty or short page, and reports transport failures,
// non-success statuses, and malformed bodies as distinct error types. Any
// failure aborts the listing without returning the names gathered so far.
package githubapi
