package upstream

import "encoding/json"

// QueryResponse is one page of results from a data-source query.
type QueryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Page is the raw upstream record shape before normalization.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	URL            string              `json:"url"`
	Archived       bool                `json:"archived"`
	Properties     map[string]Property `json:"properties"`
}

// Property is a tagged variant over the recognized property kinds.
// Type selects which payload field is populated; unrecognized types
// leave every payload field empty.
type Property struct {
	Type           string     `json:"type"`
	Title          []RichText `json:"title,omitempty"`
	RichText       []RichText `json:"rich_text,omitempty"`
	Select         *Option    `json:"select,omitempty"`
	MultiSelect    []Option   `json:"multi_select,omitempty"`
	Date           *Date      `json:"date,omitempty"`
	Number         *float64   `json:"number,omitempty"`
	Email          *string    `json:"email,omitempty"`
	URL            *string    `json:"url,omitempty"`
	PhoneNumber    *string    `json:"phone_number,omitempty"`
	Checkbox       *bool      `json:"checkbox,omitempty"`
	People         []Person   `json:"people,omitempty"`
	Status         *Option    `json:"status,omitempty"`
	Files          []File     `json:"files,omitempty"`
	CreatedTime    string     `json:"created_time,omitempty"`
	LastEditedTime string     `json:"last_edited_time,omitempty"`
}

type RichText struct {
	PlainText string `json:"plain_text"`
}

type Option struct {
	Name string `json:"name"`
}

type Date struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type Person struct {
	Name   string       `json:"name"`
	Person *PersonEmail `json:"person,omitempty"`
}

type PersonEmail struct {
	Email string `json:"email"`
}

type File struct {
	Name string `json:"name"`
}

type queryRequest struct {
	Filter      json.RawMessage `json:"filter,omitempty"`
	Sorts       json.RawMessage `json:"sorts,omitempty"`
	StartCursor string          `json:"start_cursor,omitempty"`
}

type createPageRequest struct {
	Parent     pageParent      `json:"parent"`
	Properties json.RawMessage `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
