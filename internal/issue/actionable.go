// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// verboseHint is appended to non-verbose output of errors linked to a
// catalog entry.
const verboseHint = "Run with --verbose for a detailed guide."

type (
	// ActionableError is the user-facing error of the pipeline. It names the
	// step that failed, the mod/version or file it failed on, and what the
	// user can do about it.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("extract rules").
	//		WithResource("Carpet Extra (Minecraft 1.20)").
	//		WithSuggestion("Check the gradle output above").
	//		WithIssue(issue.BuildFailedId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "stage build" or "load mods".
		Operation string

		// Resource identifies the mod, version or file involved (optional).
		Resource string

		// Suggestions are short fixes printed below the message (optional).
		Suggestions []string

		// Issue links the error to a catalog entry with longer guidance (optional).
		Issue Id

		// Cause is the underlying error (optional).
		Cause error
	}

	// ErrorContext collects the fields of an ActionableError fluently.
	ErrorContext struct {
		err ActionableError
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// WrapWithOperation wraps err with operation context. A nil err stays nil.
func WrapWithOperation(err error, operation string) error {
	return WrapWithContext(err, operation, "")
}

// WrapWithContext wraps err with operation and resource context. A nil err
// stays nil.
func WrapWithContext(err error, operation, resource string) error {
	if err == nil {
		return nil
	}
	return &ActionableError{Operation: operation, Resource: resource, Cause: err}
}

// Error renders "failed to <operation> [<resource>]: <cause>".
func (e *ActionableError) Error() string {
	msg := "failed to " + e.Operation
	if e.Resource != "" {
		msg += " [" + e.Resource + "]"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for the terminal. Suggestions follow the message
// as a bullet list. In verbose mode the causal chain is listed one layer per
// line, each layer showing only the text it adds to the layer below.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if !verbose {
		if _, ok := IssueOf(e); ok {
			b.WriteString("\n\n" + verboseHint)
		}
		return b.String()
	}

	if layers := chain(e.Cause); len(layers) > 0 {
		b.WriteString("\n\nError chain:")
		for i, layer := range layers {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, layer)
		}
	}
	return b.String()
}

// chain flattens err into the messages of its wrap layers. A layer whose
// message ends with ": <inner message>" is trimmed to its own prefix.
func chain(err error) []string {
	var layers []string
	for err != nil {
		msg := err.Error()
		next := errors.Unwrap(err)
		if next != nil {
			if own, ok := strings.CutSuffix(msg, ": "+next.Error()); ok {
				msg = own
			}
		}
		if msg != "" {
			layers = append(layers, msg)
		}
		err = next
	}
	return layers
}

// WithOperation sets the verb phrase of the failed step.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.err.Operation = op
	return c
}

// WithResource sets the resource involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.err.Resource = res
	return c
}

// WithSuggestion appends a suggestion.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.err.Suggestions = append(c.err.Suggestions, sug)
	return c
}

// WithIssue links the error to a catalog entry.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.err.Issue = id
	return c
}

// Wrap sets the underlying cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.err.Cause = err
	return c
}

// Build returns a copy of the collected error, or nil without an operation.
func (c *ErrorContext) Build() *ActionableError {
	if c.err.Operation == "" {
		return nil
	}
	ae := c.err
	ae.Suggestions = append([]string(nil), c.err.Suggestions...)
	return &ae
}

// BuildError is Build returned through the error interface, so a missing
// operation yields an untyped nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}

// IssueOf returns the first catalog id found along the error chain.
func IssueOf(err error) (Id, bool) {
	for err != nil {
		var ae *ActionableError
		if !errors.As(err, &ae) {
			return 0, false
		}
		if ae.Issue != 0 {
			return ae.Issue, true
		}
		err = ae.Cause
	}
	return 0, false
}
