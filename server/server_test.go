package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagegen/chatlog"
	"pagegen/generator"
	"pagegen/schema"
)

type failingLLM struct{ err error }

func (f failingLLM) Complete(context.Context, generator.Prompt) (string, error) { return "", f.err }

func newTestServer(t *testing.T, llm generator.LLMClient) (http.Handler, *chatlog.Log) {
	t.Helper()
	agent, err := generator.NewAgent(llm,
		generator.WithImageClient(generator.MockImager{}),
		generator.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	require.NoError(t, err)
	log := chatlog.New()
	srv, err := New(agent, log, WithTimeout(5*time.Second))
	require.NoError(t, err)
	return srv.Routes(), log
}

type response struct {
	Success bool            `json:"success"`
	Message json.RawMessage `json:"message"`
}

func post(t *testing.T, h http.Handler, path, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func TestPrompt(t *testing.T) {
	h, log := newTestServer(t, generator.MockLLM{})
	rec, resp := post(t, h, "/prompt", `{"message":"what is go?"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `"Mock answer for: what is go?"`, string(resp.Message))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	entries := log.Snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, chatlog.RoleUser, entries[0].Role)
	assert.Equal(t, "what is go?", entries[0].Content)
	assert.Equal(t, chatlog.RoleAssistant, entries[1].Role)
}

func TestElement(t *testing.T) {
	h, log := newTestServer(t, generator.MockLLM{})
	rec, resp := post(t, h, "/element", `{"message":"goroutines","type":"Image"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, resp.Success)

	el, err := schema.DecodeElement(resp.Message)
	require.NoError(t, err)
	img, ok := el.(schema.Image)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(img.URI, "https://images.example.com/"))
	assert.Equal(t, schema.AssignID(schema.VariantImage, img.URI, time.Unix(1700000000, 0)), img.ID)

	assert.Equal(t, el, log.Snapshot()[1].Content)
}

func TestElementBadInput(t *testing.T) {
	h, log := newTestServer(t, generator.MockLLM{})

	rec, resp := post(t, h, "/element", `{"message":"x","type":"Video"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, string(resp.Message), "unknown element type")

	rec, resp = post(t, h, "/element", `{"message":"  ","type":"Paragraph"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)

	rec, _ = post(t, h, "/document", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, log.Len())
}

func TestDocumentAndElements(t *testing.T) {
	h, _ := newTestServer(t, generator.MockLLM{})

	rec, resp := post(t, h, "/document", `{"message":"Error Handling"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	doc, err := schema.DecodeDocument(resp.Message)
	require.NoError(t, err)
	assert.Equal(t, "Error Handling", doc.Title)

	rec, resp = post(t, h, "/elements", `{"message":"Error Handling"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var raw []any
	require.NoError(t, json.Unmarshal(resp.Message, &raw))
	els, err := schema.ValidateElements(raw)
	require.NoError(t, err)
	require.Len(t, els, len(schema.Variants))
	for i, v := range schema.Variants {
		assert.Equal(t, v, els[i].Variant())
	}
}

func TestGenerationFailureIs500(t *testing.T) {
	h, log := newTestServer(t, failingLLM{err: errors.New("quota exceeded")})
	for _, path := range []string{"/prompt", "/document", "/elements"} {
		rec, resp := post(t, h, path, `{"message":"topic"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.False(t, resp.Success)
		assert.Contains(t, string(resp.Message), "quota exceeded")
	}
	for _, e := range log.Snapshot() {
		assert.Equal(t, chatlog.RoleUser, e.Role)
	}
}

func TestInvalidPayloadIs500(t *testing.T) {
	h, _ := newTestServer(t, invalidLLM{})
	rec, resp := post(t, h, "/element", `{"message":"x","type":"Paragraph"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, string(resp.Message), `missing field \"data\"`)
}

type invalidLLM struct{}

func (invalidLLM) Complete(context.Context, generator.Prompt) (string, error) {
	return `{"type":"Paragraph","id":"p1"}`, nil
}

func TestIndex(t *testing.T) {
	h, log := newTestServer(t, generator.MockLLM{})
	log.Append(chatlog.RoleUser, "earlier question")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gopher", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Hello, gopher!")
	assert.Contains(t, body, "earlier question")

	form := url.Values{"prompt": {"tell me"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mock answer for: tell me")
	assert.Equal(t, 3, log.Len())

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("prompt="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "A prompt is required!")
	assert.Equal(t, 3, log.Len())
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(nil, chatlog.New())
	require.Error(t, err)
	agent, err := generator.NewAgent(generator.MockLLM{})
	require.NoError(t, err)
	_, err = New(agent, nil)
	require.Error(t, err)
}
