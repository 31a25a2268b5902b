package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "with path",
			err:  New(ErrorTypeDirectory, "mkdir", "2017/PET", fs.ErrPermission),
			want: "directory error during mkdir 2017/PET: permission denied",
		},
		{
			name: "with status code",
			err:  &Error{Type: ErrorTypeServerError, Op: "fetch", Code: 503, Message: "service unavailable"},
			want: "server_error error during fetch (code 503): service unavailable",
		},
		{
			name: "formatted message",
			err:  Newf(ErrorTypePrecondition, "splice", "x.min", "name shorter than %d characters", 7),
			want: "precondition error during splice x.min: name shorter than 7 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestUnwrapAndClassify(t *testing.T) {
	inner := New(ErrorTypeNetwork, "fetch", "", errors.New("connection reset"))
	outer := New(ErrorTypeRetryExhausted, "download", "pet2017min.min", inner)
	wrapped := fmt.Errorf("step 1: %w", outer)

	assert.Equal(t, ErrorTypeRetryExhausted, TypeOf(wrapped))
	assert.True(t, Is(wrapped, ErrorTypeRetryExhausted))
	assert.True(t, Is(wrapped, ErrorTypeNetwork))
	assert.False(t, Is(wrapped, ErrorTypeRename))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
}

func TestFatalAndWarningSets(t *testing.T) {
	for _, typ := range []ErrorType{ErrorTypeDirectory, ErrorTypeRemove, ErrorTypeRetryExhausted, ErrorTypePlanMismatch, ErrorTypeState} {
		assert.True(t, IsFatal(typ), typ)
		assert.False(t, IsWarning(typ), typ)
	}
	for _, typ := range []ErrorType{ErrorTypeDataType, ErrorTypePrecondition, ErrorTypeRename} {
		assert.True(t, IsWarning(typ), typ)
		assert.False(t, IsFatal(typ), typ)
	}
	assert.False(t, IsFatal(ErrorTypeNetwork))
}

func TestTypeForStatusCode(t *testing.T) {
	assert.Equal(t, ErrorTypeNetwork, TypeForStatusCode(0))
	assert.Equal(t, ErrorTypeAuth, TypeForStatusCode(401))
	assert.Equal(t, ErrorTypeAuth, TypeForStatusCode(403))
	assert.Equal(t, ErrorTypeNotFound, TypeForStatusCode(404))
	assert.Equal(t, ErrorTypeServerError, TypeForStatusCode(502))
	assert.Equal(t, ErrorTypeUnknown, TypeForStatusCode(418))
}
