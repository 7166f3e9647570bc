package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	errs "github.com/techagentng/civilink/errors"
)

func handle(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleErrors(c, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleErrorsUsesCarriedStatus(t *testing.T) {
	code, body := handle(t, errors.Wrap(errs.ErrAlreadyLiked, "like"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Already liked", body["errors"].(map[string]interface{})["title"])
}

func TestHandleErrorsHidesInternals(t *testing.T) {
	code, body := handle(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", body["errors"].(map[string]interface{})["description"])
}
