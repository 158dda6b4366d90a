// Package mderr defines the error kinds surfaced by the core pipeline.
//
// Every fallible operation in internal/mdevent, internal/group,
// internal/reconstruct, internal/xgettext, internal/gettext and
// internal/normalize returns an *Error carrying one of these kinds (built
// with New) so callers can recover it with errors.As. The core never prints; only
// the cmd/ wrappers translate these to stderr.
package mderr

import "fmt"

// Kind identifies one of the error classes from the error handling design.
type Kind int

const (
	// IoError: summary or chapter source unreadable, destination not creatable.
	IoError Kind = iota
	// ParseError: fenced but malformed code block, unclosed block quote
	// beyond serializer tolerance.
	ParseError
	// FormatFailed: reconstructor serializer reported a write/format failure.
	FormatFailed
	// UnexpectedEvent: reconstructor rejected a translated event stream
	// because its Markdown is structurally inconsistent with the surround.
	UnexpectedEvent
	// CatalogError: catalog file unparseable, or msgid/msgstr accessor failed.
	CatalogError
	// ConfigError: a configuration value has the wrong type.
	ConfigError
	// MissingChapterContent: a chapter's sub_items refer to a missing path.
	MissingChapterContent
)

func (k Kind) String() string {
	switch k {
	case IoError:
		return "IoError"
	case ParseError:
		return "ParseError"
	case FormatFailed:
		return "FormatFailed"
	case UnexpectedEvent:
		return "UnexpectedEvent"
	case CatalogError:
		return "CatalogError"
	case ConfigError:
		return "ConfigError"
	case MissingChapterContent:
		return "MissingChapterContent"
	default:
		return "UnknownError"
	}
}

// Error is a Kind-tagged error, downcastable with errors.As.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

// UnexpectedEventError is raised by the reconstructor with the fixed
// context string the translator CLI is expected to surface.
func UnexpectedEventError(err error) *Error {
	return New(UnexpectedEvent, "Markdown in translated messages (.po) may not be consistent with the original", err)
}
