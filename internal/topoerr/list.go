package topoerr

import (
	"fmt"
	"strings"
)

// List is a group of errors of one kind, like all problems found in the command line options.
//
// errors.Is matches both What and every child, including errors wrapped by a child.
type List struct {
	What     error
	Children []error
}

// Error formats What as a heading followed by the children, one per indented line.
func (l List) Error() string {
	var b strings.Builder
	b.WriteString(l.What.Error())
	b.WriteString(":")

	for _, e := range l.Children {
		for _, line := range strings.Split(e.Error(), "\n") {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}

	return b.String()
}

func (l List) Unwrap() []error {
	return append([]error{l.What}, l.Children...)
}

// ListBuilder collects errors one by one and builds a List at the end.
// The zero value is usable once What is set.
type ListBuilder struct {
	What     error
	children []error
}

// Push adds errors. Nil errors are ignored, so the result of a check can be pushed as is.
func (lb *ListBuilder) Push(errs ...error) {
	for _, err := range errs {
		if err != nil {
			lb.children = append(lb.children, err)
		}
	}
}

// Pushf adds an error formatted by fmt.Errorf.
func (lb *ListBuilder) Pushf(format string, values ...any) {
	lb.children = append(lb.children, fmt.Errorf(format, values...))
}

// Len returns the number of errors pushed so far.
func (lb *ListBuilder) Len() int {
	return len(lb.children)
}

// Build returns a List of the pushed errors, or nil if nothing was pushed.
func (lb *ListBuilder) Build() error {
	if len(lb.children) == 0 {
		return nil
	}

	children := make([]error, len(lb.children))
	copy(children, lb.children)

	return List{
		What:     lb.What,
		Children: children,
	}
}
