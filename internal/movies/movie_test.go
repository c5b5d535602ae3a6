package movies

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func TestCreateRequestValidate(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	yearErr := "year must be between 1888 and 2027"

	tests := map[string]struct {
		req  CreateRequest
		want []string
	}{
		"valid": {
			req: CreateRequest{Title: strPtr("Inception"), Year: intPtr(2010)},
		},
		"lower bound": {
			req: CreateRequest{Title: strPtr("Roundhay Garden Scene"), Year: intPtr(1888)},
		},
		"upper bound": {
			req: CreateRequest{Title: strPtr("Upcoming"), Year: intPtr(2027)},
		},
		"exactly max title length": {
			req: CreateRequest{Title: strPtr(strings.Repeat("a", 100)), Year: intPtr(2010)},
		},
		"multibyte title counts characters": {
			req: CreateRequest{Title: strPtr(strings.Repeat("ё", 100)), Year: intPtr(2010)},
		},
		"empty title": {
			req:  CreateRequest{Title: strPtr(""), Year: intPtr(2010)},
			want: []string{"title must not be empty"},
		},
		"blank title": {
			req:  CreateRequest{Title: strPtr(" \t "), Year: intPtr(2010)},
			want: []string{"title must not be empty"},
		},
		"missing title": {
			req:  CreateRequest{Year: intPtr(2010)},
			want: []string{"title must not be empty"},
		},
		"long title": {
			req:  CreateRequest{Title: strPtr(strings.Repeat("a", 101)), Year: intPtr(2010)},
			want: []string{"title must not exceed 100 characters"},
		},
		"year too early": {
			req:  CreateRequest{Title: strPtr("Movie"), Year: intPtr(1887)},
			want: []string{yearErr},
		},
		"year too late": {
			req:  CreateRequest{Title: strPtr("Movie"), Year: intPtr(2028)},
			want: []string{yearErr},
		},
		"missing year": {
			req:  CreateRequest{Title: strPtr("Movie")},
			want: []string{yearErr},
		},
		"all fields invalid": {
			req:  CreateRequest{Title: strPtr(""), Year: intPtr(2031)},
			want: []string{"title must not be empty", yearErr},
		},
		"empty body": {
			want: []string{"title must not be empty", yearErr},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := tc.req.Validate(now)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Validate() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMaxYearFollowsClock(t *testing.T) {
	if got := MaxYear(time.Date(1999, time.December, 31, 23, 59, 0, 0, time.UTC)); got != 2000 {
		t.Errorf("MaxYear(1999) = %d, want 2000", got)
	}
	if got := MaxYear(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)); got != 2001 {
		t.Errorf("MaxYear(2000) = %d, want 2001", got)
	}
}
