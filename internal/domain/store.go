package domain

import (
	"fmt"
	"time"
)

type StoreKind string

const (
	StoreDaily    StoreKind = "daily"
	StoreSite     StoreKind = "site"
	StoreFiltered StoreKind = "filtered"
	StoreUploaded StoreKind = "uploaded"
)

// StoreKey addresses one logical record list.
type StoreKey struct {
	Kind StoreKind
	Site string
	Day  time.Time
}

func DailyKey(day time.Time) StoreKey    { return StoreKey{Kind: StoreDaily, Day: day} }
func FilteredKey(day time.Time) StoreKey { return StoreKey{Kind: StoreFiltered, Day: day} }
func UploadedKey(day time.Time) StoreKey { return StoreKey{Kind: StoreUploaded, Day: day} }
func SiteKey(site string) StoreKey       { return StoreKey{Kind: StoreSite, Site: site} }

func (k StoreKey) String() string {
	if k.Kind == StoreSite {
		return fmt.Sprintf("%s/%s", k.Kind, k.Site)
	}
	return fmt.Sprintf("%s/%s", k.Kind, k.Day.Format(time.DateOnly))
}
