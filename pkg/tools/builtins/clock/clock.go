// Package clock provides the time-lookup tool suite: current time for a
// single city, a batch of cities, or the New York Stock Exchange.
package clock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/jmkoo/daedap/pkg/tools"
)

// now is replaced in tests for deterministic output.
var now = time.Now

// zones maps common city spellings to IANA zone names. Unknown cities
// fall back to UTC rather than failing the lookup.
var zones = map[string]string{
	"seoul":       "Asia/Seoul",
	"new york":    "America/New_York",
	"nyc":         "America/New_York",
	"tokyo":       "Asia/Tokyo",
	"london":      "Europe/London",
	"paris":       "Europe/Paris",
	"sydney":      "Australia/Sydney",
	"la":          "America/Los_Angeles",
	"los angeles": "America/Los_Angeles",
}

type cityTimeArgs struct {
	City string `json:"city"`
}

type citiesTimeArgs struct {
	Cities []string `json:"cities"`
}

// Definitions returns the clock tool definitions.
func Definitions() []tools.Definition {
	citySchema, err := jsonschema.For[cityTimeArgs](nil)
	if err != nil {
		panic(fmt.Sprintf("clock: city schema: %v", err))
	}
	citiesSchema, err := jsonschema.For[citiesTimeArgs](nil)
	if err != nil {
		panic(fmt.Sprintf("clock: cities schema: %v", err))
	}

	return []tools.Definition{
		{
			Name:        "getCityTime",
			Description: "Returns the current time in a city.",
			Parameters:  citySchema,
			Handler:     getCityTime,
		},
		{
			Name:        "getCitiesTime",
			Description: "Returns the current time in several cities at once.",
			Parameters:  citiesSchema,
			Handler:     getCitiesTime,
		},
		{
			Name:        "getNYSETime",
			Description: "Returns the current time at the New York Stock Exchange (US Eastern).",
			Parameters:  &jsonschema.Schema{Type: "object"},
			Handler:     getNYSETime,
		},
	}
}

func getCityTime(_ context.Context, args map[string]any) (any, error) {
	var in cityTimeArgs
	if err := tools.BindArgs(args, &in); err != nil {
		return nil, err
	}
	return cityTime(in.City), nil
}

func getCitiesTime(_ context.Context, args map[string]any) (any, error) {
	var in citiesTimeArgs
	if err := tools.BindArgs(args, &in); err != nil {
		return nil, err
	}

	// Returned as a bare array; the registry wraps it as {result: [...]}.
	out := make([]any, 0, len(in.Cities))
	for _, city := range in.Cities {
		out = append(out, cityTime(city))
	}
	return out, nil
}

func getNYSETime(_ context.Context, _ map[string]any) (any, error) {
	return cityTime("New York"), nil
}

func cityTime(city string) map[string]any {
	name := zones[strings.ToLower(strings.TrimSpace(city))]
	if name == "" {
		name = "UTC"
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
		name = "UTC"
	}

	t := now().In(loc)
	return map[string]any{
		"city":      city,
		"timeZone":  name,
		"iso":       t.Format(time.RFC3339),
		"formatted": t.Format("2006-01-02 15:04:05"),
	}
}
