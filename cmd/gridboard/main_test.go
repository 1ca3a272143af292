package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectInstanceLookupArgs(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "bare instance id",
			in:   []string{"gridboard", "wi-abc123"},
			want: []string{"gridboard", "widgets", "show", "wi-abc123"},
		},
		{
			name: "instance id after value flag",
			in:   []string{"gridboard", "--dir", "/tmp/store", "wi-abc123"},
			want: []string{"gridboard", "--dir", "/tmp/store", "widgets", "show", "wi-abc123"},
		},
		{
			name: "instance id after bool flag",
			in:   []string{"gridboard", "--pretty", "wi-abc123"},
			want: []string{"gridboard", "--pretty", "widgets", "show", "wi-abc123"},
		},
		{
			name: "instance id after flag=value",
			in:   []string{"gridboard", "--dir=/tmp/store", "wi-abc123"},
			want: []string{"gridboard", "--dir=/tmp/store", "widgets", "show", "wi-abc123"},
		},
		{
			name: "instance id after double dash",
			in:   []string{"gridboard", "--", "wi-abc123"},
			want: []string{"gridboard", "--", "widgets", "show", "wi-abc123"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"gridboard", "widgets", "show", "wi-abc123"},
			want: []string{"gridboard", "widgets", "show", "wi-abc123"},
		},
		{
			name: "non-id positional untouched",
			in:   []string{"gridboard", "layouts", "list"},
			want: []string{"gridboard", "layouts", "list"},
		},
		{
			name: "bare prefix is not an id",
			in:   []string{"gridboard", "wi-"},
			want: []string{"gridboard", "wi-"},
		},
		{
			name: "no args",
			in:   []string{"gridboard"},
			want: []string{"gridboard"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := rewriteDirectInstanceLookupArgs(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("rewrite(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}
