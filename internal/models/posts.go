package models

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PostIDPattern is the shape of a post identifier on the wire.
var PostIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

type Post struct {
	ID      string    `db:"id" json:"id"`
	Title   string    `db:"title" json:"title"`
	Content string    `db:"content" json:"content"`
	Created time.Time `db:"created" json:"created"`
}

// Title limits differ between the JSON and form creation paths.
const (
	MaxTitleJSON = 50
	MaxTitleForm = 20
	MaxContent   = 255
	MaxFilter    = 255
)

// PostInput is the body accepted by create and edit.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate checks the input against the JSON body limits.
func (p PostInput) Validate() error {
	return p.validate(MaxTitleJSON)
}

// ValidateForm checks the input against the form body limits.
func (p PostInput) ValidateForm() error {
	return p.validate(MaxTitleForm)
}

func (p PostInput) validate(maxTitle int) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.RuneLength(1, maxTitle)),
		validation.Field(&p.Content, validation.Required, validation.RuneLength(1, MaxContent)),
	)
}

// ValidatePostID reports whether id is a 24 character hex string.
func ValidatePostID(id string) error {
	return validation.Validate(id,
		validation.Required,
		validation.Match(PostIDPattern).Error("must be a 24 character hexadecimal string"),
	)
}

// ValidateTitleFilter validates a list filter that was supplied by the client.
func ValidateTitleFilter(titulo string) error {
	return validation.Validate(titulo, validation.Required, validation.RuneLength(1, MaxFilter))
}
