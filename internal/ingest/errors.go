package ingest

import (
	"fmt"
	"strings"
)

// IngestionError reports a source file that could not be used. It is fatal
// for that file only; the loader carries on with the others.
type IngestionError struct {
	File   string
	Line   int // 1-based, 0 when the whole file is affected
	Reason string
	Err    error
}

func (e *IngestionError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
	} else {
		b.WriteString("<input>")
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	return b.String()
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

func lineError(line int, err error, format string, args ...interface{}) *IngestionError {
	return &IngestionError{
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
