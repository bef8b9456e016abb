// Package serverless adapta o app HTTP para funções serverless que entregam a
// requisição como um evento e esperam {statusCode, headers, body} de volta.
package serverless

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	defaultScheme = "https"
	defaultHost   = "localhost"
	defaultPort   = "443"
)

type Event struct {
	Method          string            `json:"method"`
	URL             string            `json:"url"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded,omitempty"`
}

type Response struct {
	StatusCode        int                 `json:"statusCode"`
	Headers           map[string]string   `json:"headers"`
	MultiValueHeaders map[string][]string `json:"multiValueHeaders,omitempty"`
	Body              string              `json:"body"`
	IsBase64Encoded   bool                `json:"isBase64Encoded,omitempty"`
}

// NewEvent monta o evento a partir de uma requisição HTTP comum.
func NewEvent(r *http.Request) (Event, error) {
	ev := Event{
		Method:  r.Method,
		URL:     r.URL.RequestURI(),
		Headers: map[string]string{},
	}
	for k, v := range r.Header {
		ev.Headers[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	if r.Host != "" {
		ev.Headers["host"] = r.Host
	}
	if r.Body == nil {
		return ev, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ev, fmt.Errorf("read body: %w", err)
	}
	if utf8.Valid(body) {
		ev.Body = string(body)
	} else {
		ev.Body = base64.StdEncoding.EncodeToString(body)
		ev.IsBase64Encoded = true
	}
	return ev, nil
}

// Adapter executa um http.Handler para cada evento.
type Adapter struct {
	Handler http.Handler
}

func (a *Adapter) Invoke(ctx context.Context, ev Event) (Response, error) {
	req, err := buildRequest(ctx, ev)
	if err != nil {
		return Response{}, err
	}

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, req)
	res := rec.Result()
	defer res.Body.Close()

	out := Response{
		StatusCode:        res.StatusCode,
		Headers:           map[string]string{},
		MultiValueHeaders: map[string][]string{},
	}
	for k, v := range res.Header {
		if len(v) == 0 {
			continue
		}
		out.Headers[k] = v[len(v)-1]
		out.MultiValueHeaders[k] = v
	}

	body := rec.Body.Bytes()
	if utf8.Valid(body) {
		out.Body = string(body)
	} else {
		out.Body = base64.StdEncoding.EncodeToString(body)
		out.IsBase64Encoded = true
	}
	return out, nil
}

func header(h map[string]string, key string) string {
	for k, v := range h {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func buildRequest(ctx context.Context, ev Event) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(ev.Method))
	if method == "" {
		method = http.MethodGet
	}

	target, err := url.Parse(ev.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", ev.URL, err)
	}
	if target.Path == "" {
		target.Path = "/"
	}

	scheme := header(ev.Headers, "X-Forwarded-Proto")
	if scheme == "" {
		scheme = defaultScheme
	}
	host := header(ev.Headers, "Host")
	if host == "" {
		host = defaultHost
	}
	port := header(ev.Headers, "X-Forwarded-Port")
	if port == "" {
		port = defaultPort
	}

	body := []byte(ev.Body)
	if ev.IsBase64Encoded {
		if body, err = base64.StdEncoding.DecodeString(ev.Body); err != nil {
			return nil, fmt.Errorf("decode body: %w", err)
		}
	}

	u := url.URL{Scheme: scheme, Host: host, Path: target.Path, RawPath: target.RawPath, RawQuery: target.RawQuery}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range ev.Headers {
		if strings.EqualFold(k, "Host") {
			continue
		}
		req.Header.Set(k, v)
	}
	req.Host = host
	req.ContentLength = int64(len(body))
	if scheme == "https" {
		req.TLS = &tls.ConnectionState{}
	}

	clientIP := "127.0.0.1"
	if fwd := header(ev.Headers, "X-Forwarded-For"); fwd != "" {
		clientIP = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	req.RemoteAddr = net.JoinHostPort(clientIP, port)
	return req, nil
}

// WriteResponse copia a Response para um ResponseWriter real.
func WriteResponse(w http.ResponseWriter, res Response) error {
	h := w.Header()
	for k, v := range res.Headers {
		if _, multi := res.MultiValueHeaders[k]; !multi {
			h.Set(k, v)
		}
	}
	for k, vs := range res.MultiValueHeaders {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}

	body := []byte(res.Body)
	if res.IsBase64Encoded {
		var err error
		if body, err = base64.StdEncoding.DecodeString(res.Body); err != nil {
			return fmt.Errorf("decode body: %w", err)
		}
	}
	status := res.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ev, err := NewEvent(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := a.Invoke(r.Context(), ev)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = WriteResponse(w, res)
}
