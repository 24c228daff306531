package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sync_relay/internal/upstream"
)

func TestRecord_AllPropertyKinds(t *testing.T) {
	num := 42.5
	email := "dev@example.com"
	link := "https://example.com"
	phone := "+1-555-0100"
	checked := true

	page := upstream.Page{
		ID:             "page-1",
		CreatedTime:    "2024-01-01T00:00:00.000Z",
		LastEditedTime: "2024-02-01T00:00:00.000Z",
		URL:            "https://workspace.example/page-1",
		Properties: map[string]upstream.Property{
			"Name":     {Type: "title", Title: []upstream.RichText{{PlainText: "First"}, {PlainText: "ignored"}}},
			"Notes":    {Type: "rich_text", RichText: []upstream.RichText{{PlainText: "some notes"}}},
			"Stage":    {Type: "select", Select: &upstream.Option{Name: "Active"}},
			"Labels":   {Type: "multi_select", MultiSelect: []upstream.Option{{Name: "a"}, {Name: "b"}}},
			"Due":      {Type: "date", Date: &upstream.Date{Start: "2024-03-01"}},
			"Score":    {Type: "number", Number: &num},
			"Email":    {Type: "email", Email: &email},
			"Link":     {Type: "url", URL: &link},
			"Phone":    {Type: "phone_number", PhoneNumber: &phone},
			"Done":     {Type: "checkbox", Checkbox: &checked},
			"Owners":   {Type: "people", People: []upstream.Person{{Name: "Ada"}, {Person: &upstream.PersonEmail{Email: "bob@example.com"}}}},
			"State":    {Type: "status", Status: &upstream.Option{Name: "In progress"}},
			"Files":    {Type: "files", Files: []upstream.File{{Name: "report.pdf"}, {Name: "extra.pdf"}}},
			"Created":  {Type: "created_time", CreatedTime: "2024-01-01T00:00:00.000Z"},
			"Edited":   {Type: "last_edited_time", LastEditedTime: "2024-02-01T00:00:00.000Z"},
		},
	}

	rec := Record(page)

	assert.Equal(t, "page-1", rec.ID)
	assert.Equal(t, "2024-02-01T00:00:00.000Z", rec.LastEditedTime)

	assert.Equal(t, "First", rec.Properties["Name"])
	assert.Equal(t, "some notes", rec.Properties["Notes"])
	assert.Equal(t, "Active", rec.Properties["Stage"])
	assert.Equal(t, "a, b", rec.Properties["Labels"])
	assert.Equal(t, "2024-03-01", rec.Properties["Due"])
	assert.Equal(t, 42.5, rec.Properties["Score"])
	assert.Equal(t, "dev@example.com", rec.Properties["Email"])
	assert.Equal(t, "https://example.com", rec.Properties["Link"])
	assert.Equal(t, "+1-555-0100", rec.Properties["Phone"])
	assert.Equal(t, true, rec.Properties["Done"])
	assert.Equal(t, "Ada, bob@example.com", rec.Properties["Owners"])
	assert.Equal(t, "In progress", rec.Properties["State"])
	assert.Equal(t, "report.pdf", rec.Properties["Files"])
	assert.Equal(t, "2024-01-01T00:00:00.000Z", rec.Properties["Created"])
	assert.Equal(t, "2024-02-01T00:00:00.000Z", rec.Properties["Edited"])
}

func TestRecord_UnrecognizedTypeDoesNotAffectSiblings(t *testing.T) {
	page := upstream.Page{
		ID: "page-2",
		Properties: map[string]upstream.Property{
			"Name":    {Type: "title", Title: []upstream.RichText{{PlainText: "kept"}}},
			"Formula": {Type: "formula"},
			"Unknown": {Type: ""},
		},
	}

	rec := Record(page)

	assert.Equal(t, "kept", rec.Properties["Name"])
	assert.Nil(t, rec.Properties["Formula"])
	assert.Nil(t, rec.Properties["Unknown"])
}

func TestRecord_EmptyPayloadsMapToNil(t *testing.T) {
	page := upstream.Page{
		ID: "page-3",
		Properties: map[string]upstream.Property{
			"Name":   {Type: "title"},
			"Stage":  {Type: "select"},
			"Labels": {Type: "multi_select"},
			"Due":    {Type: "date"},
			"Score":  {Type: "number"},
			"Done":   {Type: "checkbox"},
			"Owners": {Type: "people"},
			"Files":  {Type: "files"},
		},
	}

	rec := Record(page)

	for name, value := range rec.Properties {
		assert.Nil(t, value, "property %s", name)
	}
}

func TestRecords_BatchSurvivesMalformedRecord(t *testing.T) {
	pages := []upstream.Page{
		{ID: "ok-1", Properties: map[string]upstream.Property{
			"Name": {Type: "title", Title: []upstream.RichText{{PlainText: "one"}}},
		}},
		{ID: "bad", Properties: map[string]upstream.Property{
			"Broken": {Type: "multi_select"},
		}},
		{ID: "ok-2", Properties: map[string]upstream.Property{
			"Name": {Type: "title", Title: []upstream.RichText{{PlainText: "two"}}},
		}},
	}

	records := Records(pages)

	assert.Len(t, records, 3)
	assert.Equal(t, "one", records[0].Properties["Name"])
	assert.Nil(t, records[1].Properties["Broken"])
	assert.Equal(t, "two", records[2].Properties["Name"])
}
