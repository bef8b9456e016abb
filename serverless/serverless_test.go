package serverless

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echo devolve o que o handler enxergou da requisição.
func echo() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusCreated)
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		_, _ = io.WriteString(w, strings.Join([]string{
			r.Method, scheme, r.Host, r.URL.Path, r.URL.RawQuery, r.RemoteAddr, string(body),
		}, "|"))
	})
}

func TestInvoke_Defaults(t *testing.T) {
	a := &Adapter{Handler: echo()}

	res, err := a.Invoke(context.Background(), Event{URL: "/courses/?category=go"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "GET|https|localhost|/courses/|category=go|127.0.0.1:443|", res.Body)
	assert.Equal(t, "text/plain", res.Headers["Content-Type"])
	assert.Equal(t, []string{"a=1", "b=2"}, res.MultiValueHeaders["Set-Cookie"])
	assert.False(t, res.IsBase64Encoded)
}

func TestInvoke_ForwardedHeaders(t *testing.T) {
	a := &Adapter{Handler: echo()}

	res, err := a.Invoke(context.Background(), Event{
		Method: "post",
		URL:    "/accounts/login/",
		Headers: map[string]string{
			"host":              "coursehub.example",
			"x-forwarded-proto": "http",
			"x-forwarded-port":  "8080",
			"x-forwarded-for":   "10.0.0.9, 10.0.0.1",
			"content-type":      "application/x-www-form-urlencoded",
		},
		Body: "login=ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "POST|http|coursehub.example|/accounts/login/||10.0.0.9:8080|login=ana", res.Body)
}

func TestInvoke_BadURL(t *testing.T) {
	a := &Adapter{Handler: echo()}
	_, err := a.Invoke(context.Background(), Event{URL: "%zz"})
	require.Error(t, err)
}

func TestServeHTTP_RoundTrip(t *testing.T) {
	a := &Adapter{Handler: echo()}

	req := httptest.NewRequest(http.MethodPut, "http://api.example/x?y=1", strings.NewReader("payload"))
	req.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"a=1", "b=2"}, rec.Header().Values("Set-Cookie"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PUT|https|api.example|/x|y=1|"))
	assert.True(t, strings.HasSuffix(rec.Body.String(), "|payload"))
}

func TestBinaryBodyIsBase64(t *testing.T) {
	a := &Adapter{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{0xff, 0xfe, 0x00})
	})}
	res, err := a.Invoke(context.Background(), Event{URL: "/"})
	require.NoError(t, err)
	assert.True(t, res.IsBase64Encoded)
	assert.Equal(t, "//4A", res.Body)

	rec := httptest.NewRecorder()
	require.NoError(t, WriteResponse(rec, res))
	assert.Equal(t, []byte{0xff, 0xfe, 0x00}, rec.Body.Bytes())
}
