package fourds

import (
	"errors"
	"fmt"
)

// Codec errors. Truncated buffers surface bin.ErrTruncated and malformed
// chunk trees surface chunk.ErrMalformed from the underlying packages.
var (
	ErrInvalidSignature   = errors.New("invalid 4DS signature")
	ErrUnsupportedVersion = errors.New("unsupported 4DS version")
	ErrMissingChunk       = errors.New("missing required chunk")

	// ErrBufferSizeMismatch is returned when a geometry buffer's declared
	// element count disagrees with its payload size.
	ErrBufferSizeMismatch = errors.New("buffer size mismatch")

	// ErrForwardParentReference is returned when an object's parent index
	// does not point to an earlier-decoded object.
	ErrForwardParentReference = errors.New("forward parent reference")

	// ErrUnsupportedVariant is returned for recognized-but-unhandled
	// object or visual discriminants (joints, morphs, mirrors, targets).
	ErrUnsupportedVariant = errors.New("unsupported object variant")

	// ErrUnsupportedBlendMode is returned at encode time for a material
	// whose blend mode the engine would not understand.
	ErrUnsupportedBlendMode = errors.New("unsupported blend mode")

	// ErrValidationFailed wraps a ValidationError.
	ErrValidationFailed = errors.New("validation failed")
)

// Severity classifies a validation issue.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Issue is a single validation finding.
type Issue struct {
	Severity Severity
	Code     string // stable machine-readable code, e.g. "face-range"
	Context  string // human-readable context: object name, index, values
}

// String formats the issue for display.
func (i Issue) String() string {
	return fmt.Sprintf("%s [%s]: %s", i.Severity, i.Code, i.Context)
}

// ValidationReport collects every issue found in a scene model. Checks do
// not abort on the first finding, so a caller sees the full picture and
// can decide whether warnings are acceptable.
type ValidationReport struct {
	Issues []Issue
}

func (r *ValidationReport) add(sev Severity, code, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Code:     code,
		Context:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any issue is of error severity.
func (r *ValidationReport) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity issues.
func (r *ValidationReport) Errors() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// Warnings returns only the warning-severity issues.
func (r *ValidationReport) Warnings() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			out = append(out, issue)
		}
	}
	return out
}

// ValidationError is returned by Decode and Encode when a model fails
// validation. It carries the full report.
type ValidationError struct {
	Report *ValidationReport
}

// Error summarizes the report.
func (e *ValidationError) Error() string {
	errs := e.Report.Errors()
	if len(errs) == 1 {
		return fmt.Sprintf("validation failed: %s", errs[0])
	}
	return fmt.Sprintf("validation failed with %d errors (first: %s)", len(errs), errs[0])
}

// Unwrap makes the error match ErrValidationFailed via errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
