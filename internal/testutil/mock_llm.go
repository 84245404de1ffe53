package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/farmchain/soiladvisor/internal/infrastructure/llm"
)

// MockCompletionClient implements llm.CompletionClient with scripted
// responses. Responses are consumed in order per method; when the script is
// exhausted the last entry repeats. Errors can be injected at any position.
// Adversarial tests script wrong categories, numeric leaks, off-season crops,
// and malformed JSON to prove the deterministic layers reject them.
type MockCompletionClient struct {
	mu sync.Mutex

	JSONResponses []JSONResponse
	TextResponses []TextResponse

	jsonCalls int
	textCalls int

	// Prompts records every prompt received, JSON and text interleaved in
	// call order.
	Prompts []string
}

// JSONResponse is one scripted CompleteJSON result.
type JSONResponse struct {
	Object map[string]interface{}
	Err    error
}

// TextResponse is one scripted CompleteText result.
type TextResponse struct {
	Text string
	Err  error
}

var _ llm.CompletionClient = (*MockCompletionClient)(nil)

// NewMockCompletionClient returns an empty client; an unscripted call fails
// loudly so tests never pass on accidental defaults.
func NewMockCompletionClient() *MockCompletionClient {
	return &MockCompletionClient{}
}

// ScriptJSON appends a JSON response parsed from raw. Panics on bad raw: a
// broken script is a test bug, not a runtime condition.
func (m *MockCompletionClient) ScriptJSON(raw string) *MockCompletionClient {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		panic(fmt.Sprintf("testutil: bad scripted JSON: %v", err))
	}
	m.JSONResponses = append(m.JSONResponses, JSONResponse{Object: obj})
	return m
}

// ScriptJSONErr appends a failing CompleteJSON call.
func (m *MockCompletionClient) ScriptJSONErr(err error) *MockCompletionClient {
	m.JSONResponses = append(m.JSONResponses, JSONResponse{Err: err})
	return m
}

// ScriptText appends a CompleteText response.
func (m *MockCompletionClient) ScriptText(text string) *MockCompletionClient {
	m.TextResponses = append(m.TextResponses, TextResponse{Text: text})
	return m
}

// ScriptTextErr appends a failing CompleteText call.
func (m *MockCompletionClient) ScriptTextErr(err error) *MockCompletionClient {
	m.TextResponses = append(m.TextResponses, TextResponse{Err: err})
	return m
}

func (m *MockCompletionClient) CompleteJSON(_ context.Context, prompt string) (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)

	if len(m.JSONResponses) == 0 {
		return nil, fmt.Errorf("testutil: unscripted CompleteJSON call")
	}
	idx := m.jsonCalls
	if idx >= len(m.JSONResponses) {
		idx = len(m.JSONResponses) - 1
	}
	m.jsonCalls++
	r := m.JSONResponses[idx]
	return r.Object, r.Err
}

func (m *MockCompletionClient) CompleteText(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)

	if len(m.TextResponses) == 0 {
		return "", fmt.Errorf("testutil: unscripted CompleteText call")
	}
	idx := m.textCalls
	if idx >= len(m.TextResponses) {
		idx = len(m.TextResponses) - 1
	}
	m.textCalls++
	r := m.TextResponses[idx]
	return r.Text, r.Err
}

// JSONCalls returns how many CompleteJSON calls were made.
func (m *MockCompletionClient) JSONCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jsonCalls
}

// TextCalls returns how many CompleteText calls were made.
func (m *MockCompletionClient) TextCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.textCalls
}
