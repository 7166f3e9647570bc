package errors

import (
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, Status(ErrAlreadyLiked))
	assert.Equal(t, http.StatusNotFound, Status(pkgerrors.Wrap(ErrComplaintNotFound, "load")))
	assert.Equal(t, http.StatusInternalServerError, Status(pkgerrors.New("disk full")))
	assert.Equal(t, http.StatusInternalServerError, Status(&Error{Message: "no status"}))
}

func TestWithFieldsKeepsIdentity(t *testing.T) {
	withFields := ErrInvalidFields.WithFields(map[string]string{"name": "Name is required"})
	assert.True(t, pkgerrors.Is(withFields, ErrInvalidFields))
	assert.Nil(t, ErrInvalidFields.Fields)
	assert.Equal(t, "Name is required", withFields.Fields["name"])
}
