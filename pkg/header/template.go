package header

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizable is returned by Verify when a rendered header would not be
// recognized as a header on the next run.
var ErrUnrecognizable = errors.New("rendered header would not be recognized")

// Placeholders substituted by Render.
const (
	PlaceholderFilename    = "{filename}"
	PlaceholderSummary     = "{summary}"
	PlaceholderDescription = "{description}"
)

// Labels are the field captions printed in the header.
type Labels struct {
	InitialVersion string
	Author         string
	Created        string
	Summary        string
	Description    string
	CurrentVersion string
	// Colon separates a caption from its value.
	Colon string
}

// EnglishLabels is the default caption set.
var EnglishLabels = Labels{
	InitialVersion: "Initial version",
	Author:         "Author",
	Created:        "Created",
	Summary:        "Summary",
	Description:    "Description",
	CurrentVersion: "Current version",
	Colon:          ": ",
}

// ChineseLabels is the Chinese caption set, with full-width colons.
var ChineseLabels = Labels{
	InitialVersion: "初始版本",
	Author:         "作者",
	Created:        "创建日期",
	Summary:        "摘要",
	Description:    "描述",
	CurrentVersion: "当前版本",
	Colon:          "：",
}

// Fields are the values that stay constant for a whole run.
type Fields struct {
	Copyright      string
	Author         string
	Created        string
	InitialVersion string
	CurrentVersion string
}

// Template is a header skeleton with every constant already filled in.
type Template struct {
	skeleton string
}

// NewTemplate bakes labels and fields into a skeleton. Only the filename,
// summary and description placeholders remain.
func NewTemplate(labels Labels, f Fields) *Template {
	var sb strings.Builder
	line := func(format string, args ...any) {
		sb.WriteString(fmt.Sprintf(format, args...))
		sb.WriteByte('\n')
	}
	field := func(caption, value string) {
		line(" * %s%s%s", caption, labels.Colon, value)
	}

	line("/*")
	line(" * Copyright (c) %s", f.Copyright)
	line(" * All rights reserved.")
	line(" *")
	line(" * %s", PlaceholderFilename)
	line(" *")
	field(labels.InitialVersion, f.InitialVersion)
	field(labels.Author, f.Author)
	field(labels.Created, f.Created)
	field(labels.Summary, PlaceholderSummary)
	field(labels.Description, PlaceholderDescription)
	line(" *")
	field(labels.CurrentVersion, f.CurrentVersion)
	line(" */")
	sb.WriteByte('\n')

	return &Template{skeleton: sb.String()}
}

// ParseTemplate wraps a caller-supplied skeleton. It must contain the
// filename placeholder.
func ParseTemplate(skeleton string) (*Template, error) {
	if !strings.Contains(skeleton, PlaceholderFilename) {
		return nil, fmt.Errorf("template has no %s placeholder", PlaceholderFilename)
	}
	return &Template{skeleton: skeleton}, nil
}

// Skeleton returns the template text with placeholders intact.
func (t *Template) Skeleton() string {
	return t.skeleton
}

// Render substitutes the placeholders in a single pass. Values are inserted
// verbatim; placeholder text inside a value is not expanded again.
func (t *Template) Render(filename, summary, description string) string {
	return strings.NewReplacer(
		PlaceholderFilename, filename,
		PlaceholderSummary, summary,
		PlaceholderDescription, description,
	).Replace(t.skeleton)
}

// Verify renders a sample header and checks that d finds it and that Strip
// removes exactly that header. A template that fails either check would put
// one more header on top of the file every run.
func (t *Template) Verify(d Detector) error {
	sample := t.Render("Sample_Name.h", "summary", "description")
	if !d.HasHeader(sample) {
		return fmt.Errorf("%w: marker %q is not within the first %d characters", ErrUnrecognizable, d.Marker, d.Window)
	}
	end, ok := LeadingBlockEnd(sample)
	if !ok {
		return fmt.Errorf("%w: header must start with a closed /* */ block", ErrUnrecognizable)
	}
	if end != len(sample) {
		return fmt.Errorf("%w: text follows the closing */ of the header", ErrUnrecognizable)
	}
	return nil
}
