package validation

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	TranDate string `json:"trandate" validate:"required,date"`
	Payee    string `json:"payee" validate:"omitempty,noStartEndSpaces"`
}

func TestValidateStruct(t *testing.T) {
	testCases := []struct {
		name       string
		in         sample
		wantFields []string
	}{
		{
			name: "valid",
			in:   sample{TranDate: "2026-08-15", Payee: "Power Co"},
		},
		{
			name:       "missing date",
			in:         sample{},
			wantFields: []string{"trandate"},
		},
		{
			name:       "date in wrong layout",
			in:         sample{TranDate: "15/08/2026"},
			wantFields: []string{"trandate"},
		},
		{
			name:       "payee with trailing space",
			in:         sample{TranDate: "2026-08-15", Payee: "Power Co "},
			wantFields: []string{"payee"},
		},
		{
			name:       "multiple failures collected",
			in:         sample{Payee: " x"},
			wantFields: []string{"trandate", "payee"},
		},
	}
	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs *multierror.Error
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs.Errors, len(tt.wantFields))

			got := make([]string, 0, len(errs.Errors))
			for _, e := range errs.Errors {
				var detail ErrorValidateResponse
				require.ErrorAs(t, e, &detail)
				got = append(got, detail.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, got)
		})
	}
}
