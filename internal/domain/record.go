package domain

import "strings"

// DateLayout is the layout of Record.Date and of the dated store names.
const DateLayout = "Jan 02, 2006"

// Record is one scraped content entry. Nil pointers mean the scraper could
// not find the field.
type Record struct {
	Site           string  `json:"Site"`
	Date           *string `json:"Date"`
	Title          *string `json:"Title"`
	Description    *string `json:"Description"`
	Tags           *string `json:"Tags"`
	Models         *string `json:"Models"`
	VideoEmbedURL  *string `json:"Video to embed"`
	VideoSourceURL *string `json:"Link for video"`
	ImageSourceURL *string `json:"Link for image"`
	ImageLocalPath *string `json:"Path image"`
	VideoLocalPath *string `json:"Path video"`
	PromoLink      *string `json:"Link for promo"`

	// Set on uploaded-store entries only.
	PostURL    *string  `json:"Url from site,omitempty"`
	UploadedTo []string `json:"Uploaded to,omitempty"`
}

// IdentityKey is the dedup key of a record: the video link when present,
// the title otherwise.
func (r Record) IdentityKey() string {
	if link := Value(r.VideoSourceURL); link != "" {
		return link
	}
	return "title:" + Value(r.Title)
}

// SameEntry reports whether an existing record should be replaced by r on
// upsert. Records holding a link match on the link only.
func (r Record) SameEntry(existing Record) bool {
	if existing.VideoSourceURL != nil && *existing.VideoSourceURL != "" {
		return r.VideoSourceURL != nil && *existing.VideoSourceURL == *r.VideoSourceURL
	}
	return Value(existing.Title) == Value(r.Title)
}

// IsUploadedTo reports whether the entry was published to destination.
func (r Record) IsUploadedTo(destination string) bool {
	for _, d := range r.UploadedTo {
		if strings.EqualFold(d, destination) {
			return true
		}
	}
	return false
}

// ModelNames splits the comma-joined Models field.
func (r Record) ModelNames() []string {
	models := Value(r.Models)
	if models == "" {
		return nil
	}
	var names []string
	for _, name := range strings.Split(models, ", ") {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Value dereferences s, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// UpsertRecords merges incoming into existing the way the JSON stores do:
// matching entries are replaced in place, new ones are put in front.
func UpsertRecords(existing, incoming []Record) []Record {
	out := make([]Record, len(existing))
	copy(out, existing)

	for _, rec := range incoming {
		updated := false
		for i := range out {
			if rec.SameEntry(out[i]) {
				out[i] = rec
				updated = true
				break
			}
		}
		if !updated {
			out = append([]Record{rec}, out...)
		}
	}
	return out
}
