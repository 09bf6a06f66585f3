package store

var (
	CountQuery    = countQuery
	UsageFilters  = usageFilters
	SessionClaims = sessionClaims
)
