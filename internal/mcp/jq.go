package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/macrat/topodown/internal/pivot"
)

// jqParseTopologyDate converts the registry date text into RFC 3339, or null if it is not a valid date.
func jqParseTopologyDate(x any, _ []any) any {
	str, ok := x.(string)
	if !ok {
		return fmt.Errorf("parse_topology_date/0: expected a string but got %T (%v)", x, x)
	}

	d, err := pivot.ParseDate(str)
	if err != nil {
		return nil
	}
	return d.String()
}

// jqDurationHours returns the length of a downtime in hours, or null if either end is unknown.
func jqDurationHours(x any, _ []any) any {
	d, ok := x.(map[string]any)
	if !ok {
		return fmt.Errorf("duration_hours/0: expected a downtime object but got %T", x)
	}

	start, ok1 := d["start"].(string)
	end, ok2 := d["end"].(string)
	if !ok1 || !ok2 {
		return nil
	}

	s, err1 := time.Parse(time.RFC3339, start)
	e, err2 := time.Parse(time.RFC3339, end)
	if err1 != nil || err2 != nil {
		return nil
	}
	return e.Sub(s).Hours()
}

func matchService(svc any, want any) bool {
	m, ok := svc.(map[string]any)
	if !ok {
		return false
	}

	switch w := want.(type) {
	case string:
		name, _ := m["name"].(string)
		return strings.EqualFold(name, w)
	case int:
		return m["id"] == w
	case float64:
		id, ok := m["id"].(int)
		return ok && float64(id) == w
	}
	return false
}

// jqHasService reports whether a downtime affects the service given by ID or name.
func jqHasService(x any, args []any) any {
	d, ok := x.(map[string]any)
	if !ok {
		return fmt.Errorf("has_service/1: expected a downtime object but got %T", x)
	}

	switch args[0].(type) {
	case string, int, float64:
	default:
		return fmt.Errorf("has_service/1: expected a service ID or name but got %T (%v)", args[0], args[0])
	}

	services, _ := d["services"].([]any)
	for _, s := range services {
		if matchService(s, args[0]) {
			return true
		}
	}
	return false
}

// JQQuery is a compiled jq program with the topology functions.
type JQQuery struct {
	Code *gojq.Code
}

// ParseJQ compiles a jq program. An empty program is the identity.
func ParseJQ(query string) (JQQuery, error) {
	if strings.TrimSpace(query) == "" {
		query = "."
	}

	q, err := gojq.Parse(query)
	if err != nil {
		return JQQuery{}, err
	}

	c, err := gojq.Compile(
		q,
		gojq.WithFunction("parse_topology_date", 0, 0, jqParseTopologyDate),
		gojq.WithFunction("duration_hours", 0, 0, jqDurationHours),
		gojq.WithFunction("has_service", 1, 1, jqHasService),
	)
	if err != nil {
		return JQQuery{}, err
	}

	return JQQuery{Code: c}, nil
}

// Output is the result of a query tool.
type Output struct {
	Result any `json:"result" jsonschema:"The result of the query."`
}

func (q JQQuery) collect(ctx context.Context, input any) ([]any, error) {
	var values []any

	iter := q.Code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return values, nil
		}

		switch x := v.(type) {
		case *gojq.HaltError:
			if x.ExitCode() != 0 {
				values = append(values, map[string]any{
					"status":    "halt_error",
					"exit_code": x.ExitCode(),
					"value":     x.Value(),
				})
			}
			return values, nil
		case error:
			return nil, x
		}

		values = append(values, v)
	}
}

// Run executes the query.
// A single result is returned as is, and zero or multiple results are returned as an array.
func (q JQQuery) Run(ctx context.Context, input any) (Output, error) {
	values, err := q.collect(ctx, input)
	if err != nil {
		return Output{}, err
	}

	if len(values) == 1 {
		return Output{Result: values[0]}, nil
	}
	return Output{Result: values}, nil
}
