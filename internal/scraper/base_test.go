package scraper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseModality(t *testing.T) {
	tests := []struct {
		in   string
		want Modality
		wt   int
	}{
		{"remoto", ModalityRemote, 2},
		{"Remote", ModalityRemote, 2},
		{"híbrido", ModalityHybrid, 3},
		{"HIBRIDO", ModalityHybrid, 3},
		{"presencial", ModalityOnsite, 1},
		{"on-site", ModalityOnsite, 1},
		{"", ModalityUnset, 0},
		{"anywhere", ModalityUnset, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseModality(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wt, got.WorkplaceType())
		})
	}
}

func TestParseRecency(t *testing.T) {
	tests := []struct {
		in      string
		want    Recency
		seconds int
	}{
		{"1h", "1h", 3600},
		{"24h", "24h", 86400},
		{"72H", "72h", 259200},
		{"48h", RecencyNone, 0},
		{"", RecencyNone, 0},
	}
	for _, tt := range tests {
		got := ParseRecency(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.seconds, got.Seconds(), tt.in)
	}
}

func TestNewSearchQuery_Defaults(t *testing.T) {
	q := NewSearchQuery("", "  ", nil, "", "")
	assert.Equal(t, DefaultKeyword, q.Keyword)
	assert.Equal(t, DefaultLocation, q.Location)
	assert.Equal(t, ModalityUnset, q.Modality)
	assert.Equal(t, RecencyNone, q.Recency)
	assert.NotNil(t, q.Exclude)
	assert.Empty(t, q.Exclude)
}

func TestNewSearchQuery_DropsBlankExclusions(t *testing.T) {
	q := NewSearchQuery("golang", "Madrid", []string{" intern ", "", "  "}, "hibrido", "12h")
	assert.Equal(t, []string{"intern"}, q.Exclude)
	assert.Equal(t, ModalityHybrid, q.Modality)
	assert.Equal(t, Recency("12h"), q.Recency)
}

func TestResultPage_AddStopsAtMax(t *testing.T) {
	page := &ResultPage{}
	for i := 0; i < MaxPostings+3; i++ {
		page.Add(JobPosting{Title: fmt.Sprintf("job %d", i)})
	}
	assert.Len(t, page.Postings, MaxPostings)
	assert.Equal(t, "job 0", page.Postings[0].Title)
}

func TestNoResults(t *testing.T) {
	page := NoResults("No matching jobs found.")
	assert.True(t, page.Empty)
	assert.NotNil(t, page.Postings)
	assert.Empty(t, page.Postings)
}
