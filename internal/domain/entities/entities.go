package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("invalid post")
	ErrIDExhausted  = errors.New("no post id left above the current maximum")
)

// ValidationMessage is shown to users whenever a required field is blank.
const ValidationMessage = "All fields are required."

// Post represents a single blog entry
type Post struct {
	ID      int    `json:"id" db:"id"`
	Author  string `json:"author" db:"author"`
	Title   string `json:"title" db:"title"`
	Content string `json:"content" db:"content"`
}

// PostInput carries the free-text fields submitted for a create or update
type PostInput struct {
	Author  string `json:"author" form:"author" validate:"required"`
	Title   string `json:"title" form:"title" validate:"required"`
	Content string `json:"content" form:"content" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (in PostInput) Trimmed() PostInput {
	return PostInput{
		Author:  strings.TrimSpace(in.Author),
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}
}

// Apply copies the mutable fields onto the post. The id is left alone.
func (in PostInput) Apply(p *Post) {
	p.Author = in.Author
	p.Title = in.Title
	p.Content = in.Content
}

// NewPost builds an unsaved post (id 0) from the input
func (in PostInput) NewPost() *Post {
	p := &Post{}
	in.Apply(p)
	return p
}

// Input returns the mutable fields of the post
func (p *Post) Input() PostInput {
	return PostInput{Author: p.Author, Title: p.Title, Content: p.Content}
}

// ValidationError is returned when one or more required fields are empty
// after trimming. It keeps the submitted values so callers can echo them back.
type ValidationError struct {
	ID     int               `json:"id,omitempty"`
	Input  PostInput         `json:"input"`
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return ValidationMessage
}

// Is lets errors.Is(err, ErrInvalidPost) match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPost
}

// ParseError reports a backing file that exists but cannot be read as a post list.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse post store %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a missing-post error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

// AsValidationError unwraps err into a *ValidationError if it is one
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsParseError unwraps err into a *ParseError if it is one
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
