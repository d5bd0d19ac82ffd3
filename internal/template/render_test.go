package template

import (
	"reflect"
	"testing"
)

func TestRender(t *testing.T) {
	vars := map[string]string{"threshold": "100000", "repository": "rust-lang/rust"}

	tests := []struct {
		name      string
		text      string
		variables map[string]string
		want      string
	}{
		{name: "empty text", text: "", variables: vars, want: ""},
		{name: "no variables", text: "Issue {{threshold}}", variables: nil, want: "Issue {{threshold}}"},
		{name: "single", text: "Issue #{{threshold}}!", variables: vars, want: "Issue #100000!"},
		{name: "inner spaces", text: "{{ repository }}#{{threshold}}", variables: vars, want: "rust-lang/rust#100000"},
		{name: "repeated", text: "{{threshold}} {{threshold}}", variables: vars, want: "100000 100000"},
		{name: "unknown kept", text: "{{threshold}} {{unknown}}", variables: vars, want: "100000 {{unknown}}"},
		{name: "not a placeholder", text: "{{1abc}} {threshold} {{ }}", variables: vars, want: "{{1abc}} {threshold} {{ }}"},
		{name: "empty value", text: "[{{blank}}]", variables: map[string]string{"blank": ""}, want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.text, tt.variables); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeVariables(t *testing.T) {
	tests := []struct {
		name     string
		builtins map[string]string
		user     map[string]string
		want     map[string]string
	}{
		{name: "both empty", want: nil},
		{name: "builtins only", builtins: map[string]string{"a": "1"}, want: map[string]string{"a": "1"}},
		{name: "user only", user: map[string]string{"b": "2"}, want: map[string]string{"b": "2"}},
		{
			name:     "user wins",
			builtins: map[string]string{"a": "1", "c": "3"},
			user:     map[string]string{"a": "override", "b": "2"},
			want:     map[string]string{"a": "override", "b": "2", "c": "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MergeVariables(tt.builtins, tt.user); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeVariables() = %v, want %v", got, tt.want)
			}
		})
	}
}
