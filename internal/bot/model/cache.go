package model

import "time"

// DateLayout is the vendor's date format and the cache stamp format.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form.
type Date string

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) String() string {
	return string(d)
}

// Clock supplies the current time. Tests substitute a fixed clock.
type Clock func() time.Time

// CacheEntry is either a fetched document or a failure marker for one hall.
type CacheEntry struct {
	Hall     HallID
	Document MenuDocument
	Failure  *FetchFailure
}

// FetchFailure records why the last fetch for a hall did not succeed.
type FetchFailure struct {
	Message string
}

// SuccessEntry builds an entry for a successfully fetched document.
func SuccessEntry(hall HallID, doc MenuDocument) CacheEntry {
	return CacheEntry{Hall: hall, Document: doc}
}

// FailureEntry builds a failure marker for hall.
func FailureEntry(hall HallID, message string) CacheEntry {
	return CacheEntry{Hall: hall, Failure: &FetchFailure{Message: message}}
}

// Failed reports whether the entry is a failure marker.
func (e CacheEntry) Failed() bool {
	return e.Failure != nil
}
