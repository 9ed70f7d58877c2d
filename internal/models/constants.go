package models

import "time"

// Canonical booking/transaction statuses after transformation.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusCompleted = "Completed"
	StatusOngoing   = "Ongoing"
	StatusCancelled = "Cancelled"
	StatusRefunded  = "Refunded"
	StatusUnknown   = "Unknown"
)

// User roles.
const (
	RoleCustomer   = "Customer"
	RoleAdmin      = "Admin"
	RoleSuperadmin = "Superadmin"
)

// Resource names used as cache tags and metric labels.
const (
	ResourceBookings     = "bookings"
	ResourceOrders       = "orders"
	ResourceUsers        = "users"
	ResourceTransactions = "transactions"
)

const (
	// DefaultPageSize is the table page size when none is configured.
	DefaultPageSize = 10

	// DefaultSearchDebounce delays applying a changing search term.
	DefaultSearchDebounce = 500 * time.Millisecond

	// DefaultPollInterval drives background list refresh.
	DefaultPollInterval = 30 * time.Second

	// DefaultCacheTTL bounds the lifetime of a cached list query.
	DefaultCacheTTL = 30 * time.Second

	// DefaultMaxSearchFetch caps how many records a Searching-mode fetch
	// pulls from upstream in one request.
	DefaultMaxSearchFetch = 500

	// DefaultNotificationLimit bounds the retained notification feed.
	DefaultNotificationLimit = 100
)

// Sort directions accepted by list queries.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)
