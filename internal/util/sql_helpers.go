package util

import (
	"database/sql"
	"time"
)

// StringToNullString converts a string to sql.NullString.
// An empty string is treated as NULL.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Int64PtrToNullInt64 converts an optional id to sql.NullInt64.
func Int64PtrToNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// NullInt64ToPtr is the inverse of Int64PtrToNullInt64.
func NullInt64ToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// NowUTC is the timestamp written to created_at columns, truncated to the
// precision every supported driver round-trips.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
