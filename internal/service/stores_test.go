package service

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/tutorsworld/tutors-world-api/pkg/errors"
)

func TestMapStoreError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    string
		message string
	}{
		{
			name:    "unique violation becomes conflict with caller message",
			err:     &pq.Error{Code: "23505", Constraint: "accounts_username_key"},
			code:    appErrors.ErrConflict.Code,
			message: "taken",
		},
		{
			name: "connection failure becomes unavailable",
			err:  &pq.Error{Code: "08006"},
			code: appErrors.ErrUnavailable.Code,
		},
		{
			name: "resource exhaustion becomes unavailable",
			err:  &pq.Error{Code: "53300"},
			code: appErrors.ErrUnavailable.Code,
		},
		{
			name: "anything else becomes internal",
			err:  errors.New("syntax error"),
			code: appErrors.ErrInternal.Code,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := appErrors.FromError(mapStoreError(tc.err, "taken"))
			assert.Equal(t, tc.code, mapped.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, mapped.Message)
			}
		})
	}
}
