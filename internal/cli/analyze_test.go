package cli

import (
	"reflect"
	"testing"
)

func TestParsePrefOverrides(t *testing.T) {
	cases := []struct {
		name    string
		in      []string
		want    map[string]bool
		wantErr bool
	}{
		{"nil", nil, nil, false},
		{
			"single",
			[]string{"no_sale_or_sharing=true"},
			map[string]bool{"no_sale_or_sharing": true},
			false,
		},
		{
			"multiple with spaces",
			[]string{"short_retention = false", "protect_location=1"},
			map[string]bool{"short_retention": false, "protect_location": true},
			false,
		},
		{"missing value", []string{"short_retention"}, nil, true},
		{"empty key", []string{"=true"}, nil, true},
		{"bad value", []string{"short_retention=maybe"}, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePrefOverrides(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tc.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
