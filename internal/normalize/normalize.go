// Package normalize flattens raw upstream pages into typed records.
// Extraction is type-directed and isolated per property: a payload that
// matches no recognized shape maps to nil without affecting its siblings.
package normalize

import (
	"strings"

	"sync_relay/internal/domain"
	"sync_relay/internal/upstream"
)

// Records normalizes a batch of pages. It never fails; malformed
// properties degrade to nil values.
func Records(pages []upstream.Page) []domain.Record {
	records := make([]domain.Record, 0, len(pages))
	for _, p := range pages {
		records = append(records, Record(p))
	}
	return records
}

// Record normalizes one page.
func Record(p upstream.Page) domain.Record {
	props := make(map[string]any, len(p.Properties))
	for name, prop := range p.Properties {
		props[name] = extract(prop)
	}

	return domain.Record{
		ID:             p.ID,
		CreatedTime:    p.CreatedTime,
		LastEditedTime: p.LastEditedTime,
		URL:            p.URL,
		Archived:       p.Archived,
		Properties:     props,
	}
}

func extract(p upstream.Property) any {
	switch p.Type {
	case "title":
		return firstPlainText(p.Title)
	case "rich_text":
		return firstPlainText(p.RichText)
	case "select":
		if p.Select == nil {
			return nil
		}
		return p.Select.Name
	case "multi_select":
		return joinOptions(p.MultiSelect)
	case "status":
		if p.Status == nil {
			return nil
		}
		return p.Status.Name
	case "date":
		if p.Date == nil {
			return nil
		}
		return p.Date.Start
	case "number":
		if p.Number == nil {
			return nil
		}
		return *p.Number
	case "email":
		return deref(p.Email)
	case "url":
		return deref(p.URL)
	case "phone_number":
		return deref(p.PhoneNumber)
	case "checkbox":
		if p.Checkbox == nil {
			return nil
		}
		return *p.Checkbox
	case "people":
		return joinPeople(p.People)
	case "files":
		if len(p.Files) == 0 {
			return nil
		}
		return p.Files[0].Name
	case "created_time":
		if p.CreatedTime == "" {
			return nil
		}
		return p.CreatedTime
	case "last_edited_time":
		if p.LastEditedTime == "" {
			return nil
		}
		return p.LastEditedTime
	default:
		return nil
	}
}

func firstPlainText(texts []upstream.RichText) any {
	if len(texts) == 0 {
		return nil
	}
	return texts[0].PlainText
}

func joinOptions(options []upstream.Option) any {
	if len(options) == 0 {
		return nil
	}
	names := make([]string, len(options))
	for i, o := range options {
		names[i] = o.Name
	}
	return strings.Join(names, ", ")
}

func joinPeople(people []upstream.Person) any {
	if len(people) == 0 {
		return nil
	}
	names := make([]string, len(people))
	for i, p := range people {
		switch {
		case p.Name != "":
			names[i] = p.Name
		case p.Person != nil:
			names[i] = p.Person.Email
		}
	}
	return strings.Join(names, ", ")
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
