package search

import (
	"reflect"
	"testing"
)

func TestFilterHelper_CycleFilter(t *testing.T) {
	fh := NewFilterHelper()
	conditions := []string{"new", "like-new", "good"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "add first value to empty query",
			input: "",
			want:  "condition:new",
		},
		{
			name:  "cycle to next value",
			input: "condition:new",
			want:  "condition:like-new",
		},
		{
			name:  "cycle from last value back to all",
			input: "condition:good",
			want:  "",
		},
		{
			name:  "keep free text",
			input: "samsung",
			want:  "samsung condition:new",
		},
		{
			name:  "cycle with text around it",
			input: "tv condition:like-new pune",
			want:  "tv pune condition:good",
		},
		{
			name:  "leave other filters alone",
			input: "category:books condition:new",
			want:  "category:books condition:like-new",
		},
		{
			name:  "unknown current value restarts",
			input: "condition:broken",
			want:  "condition:new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fh.CycleFilter(tt.input, "condition", conditions)
			if got != tt.want {
				t.Errorf("CycleFilter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterHelper_SetFilter(t *testing.T) {
	fh := NewFilterHelper()

	tests := []struct {
		name  string
		input string
		value string
		want  string
	}{
		{name: "set on empty", input: "", value: "villa", want: "type:villa"},
		{name: "replace existing", input: "goa type:house", value: "villa", want: "goa type:villa"},
		{name: "all removes", input: "goa type:house", value: "all", want: "goa"},
		{name: "empty removes", input: "type:house", value: "", want: ""},
		{name: "value with space is quoted", input: "", value: "sea side", want: `type:"sea side"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fh.SetFilter(tt.input, "type", tt.value)
			if got != tt.want {
				t.Errorf("SetFilter(%q, %q) = %q, want %q", tt.input, tt.value, got, tt.want)
			}
		})
	}
}

func TestFilterHelper_ExtractFilter(t *testing.T) {
	fh := NewFilterHelper()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "only filter", input: "category:books", want: "books"},
		{name: "middle of query", input: "old category:toys lego", want: "toys"},
		{name: "quoted", input: `category:"home decor"`, want: "home decor"},
		{name: "absent", input: "books", want: ""},
		{name: "prefix of other key does not match", input: "subcategory:toys", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fh.ExtractFilter(tt.input, "category")
			if got != tt.want {
				t.Errorf("ExtractFilter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterHelper_CurrentFilters(t *testing.T) {
	fh := NewFilterHelper()
	got := fh.CurrentFilters("phone condition:good category:electronics", []string{"category", "condition"})
	want := []string{"Category: electronics", "Condition: good"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CurrentFilters() = %v, want %v", got, want)
	}
	if got := fh.CurrentFilters("phone", []string{"category"}); got != nil {
		t.Errorf("CurrentFilters() with no filters = %v, want nil", got)
	}
}
