package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_IdentityKey(t *testing.T) {
	withLink := Record{Title: Ptr("t"), VideoSourceURL: Ptr("https://v/1")}
	withoutLink := Record{Title: Ptr("t")}
	emptyLink := Record{Title: Ptr("t"), VideoSourceURL: Ptr("")}

	assert.Equal(t, "https://v/1", withLink.IdentityKey())
	assert.Equal(t, "title:t", withoutLink.IdentityKey())
	assert.Equal(t, withoutLink.IdentityKey(), emptyLink.IdentityKey())
}

func TestRecord_ModelNames(t *testing.T) {
	assert.Equal(t, []string{"Anna", "Bella"}, Record{Models: Ptr("Anna, Bella")}.ModelNames())
	assert.Nil(t, Record{}.ModelNames())
}

func TestRecord_IsUploadedTo(t *testing.T) {
	r := Record{UploadedTo: []string{"SiteA"}}

	assert.True(t, r.IsUploadedTo("sitea"))
	assert.False(t, r.IsUploadedTo("siteb"))
}

func TestRecord_JSONKeys(t *testing.T) {
	data := []byte(`{"Site":"S","Title":"T","Link for video":"https://v","Path image":"/i.jpg","Date":null}`)

	var r Record
	require.NoError(t, json.Unmarshal(data, &r))

	assert.Equal(t, "S", r.Site)
	assert.Equal(t, "T", Value(r.Title))
	assert.Equal(t, "https://v", Value(r.VideoSourceURL))
	assert.Equal(t, "/i.jpg", Value(r.ImageLocalPath))
	assert.Nil(t, r.Date)
}

func TestUpsertRecords(t *testing.T) {
	existing := []Record{{Title: Ptr("a")}}
	got := UpsertRecords(existing, []Record{{Title: Ptr("b")}, {Title: Ptr("a"), Tags: Ptr("x")}})

	require.Len(t, got, 2)
	assert.Equal(t, "b", Value(got[0].Title))
	assert.Equal(t, "x", Value(got[1].Tags))
	assert.Nil(t, existing[0].Tags)
}

func TestStoreKey_String(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "daily/2024-01-02", DailyKey(day).String())
	assert.Equal(t, "site/Foo", SiteKey("Foo").String())
}
