package checkout_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/internal/checkout"
	apperrors "github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/errors"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/httpclient"
	"github.com/stretchr/testify/assert"
)

func TestHTTPScriptLoader_Load(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	loader := checkout.NewHTTPScriptLoader(server.URL, httpclient.NewStandardClient())

	err := loader.Load(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, http.MethodHead, gotMethod)
}

func TestHTTPScriptLoader_Load_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	loader := checkout.NewHTTPScriptLoader(server.URL, httpclient.NewStandardClient())

	err := loader.Load(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrScriptLoad)
}

func TestHTTPScriptLoader_Load_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	loader := checkout.NewHTTPScriptLoader(server.URL, httpclient.NewStandardClient())

	err := loader.Load(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrScriptLoad)
}
