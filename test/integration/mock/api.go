package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ApiMock is a programmable HTTP server. Responses are keyed by method and
// path, where a "*" path segment matches any single segment.
type ApiMock struct {
	mu                    sync.Mutex
	server                *httptest.Server
	headersReceived       map[string]map[int]map[string]string
	queriesReceived       map[string]map[int]map[string]string
	requestsReceived      map[string]map[int]map[string]any
	responseMap           map[string]map[int]any
	defaultResponseMap    map[string]map[int]any
	responseStatus        map[string]map[int]int
	defaultResponseStatus map[string]map[int]int
	mockUrl               string
}

func NewApiServer() *ApiMock {
	a := &ApiMock{}
	a.reset()
	return a
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
	a.mockUrl = a.server.URL
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.mockUrl
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := r.Method + r.URL.Path
	index := len(a.requestsReceived[key])

	body, _ := io.ReadAll(r.Body)
	var request map[string]any
	_ = json.Unmarshal(body, &request)
	if request == nil {
		request = map[string]any{}
	}
	ensure(a.requestsReceived, key)[index] = request

	headers := map[string]string{}
	for name, value := range r.Header {
		headers[name] = value[0]
	}
	ensure(a.headersReceived, key)[index] = headers

	queries := map[string]string{}
	for name, value := range r.URL.Query() {
		queries[name] = value[0]
	}
	ensure(a.queriesReceived, key)[index] = queries

	response, _ := json.Marshal(a.getResponseBody(r.Method, r.URL.Path, index))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(a.getResponseStatus(r.Method, r.URL.Path, index))
	_, _ = w.Write(response)
}

// SetResponse programs the response for the index-th call, or for every call
// without a specific response when index is -1.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		ensure(a.defaultResponseStatus, key)[0] = status
		ensure(a.defaultResponseMap, key)[0] = response
		return
	}
	ensure(a.responseMap, key)[index] = response
	ensure(a.responseStatus, key)[index] = status
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lookup(a.requestsReceived, method, path, index)
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lookup(a.headersReceived, method, path, index)
}

func (a *ApiMock) GetRequestQueries(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lookup(a.queriesReceived, method, path, index)
}

// RequestCount returns how many calls were received for method and path.
func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	key := findMatchingKey(keys(a.requestsReceived), method, path, true)
	return len(a.requestsReceived[key])
}

// Reset forgets every programmed response and every received request.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reset()
}

func (a *ApiMock) reset() {
	a.headersReceived = map[string]map[int]map[string]string{}
	a.queriesReceived = map[string]map[int]map[string]string{}
	a.requestsReceived = map[string]map[int]map[string]any{}
	a.responseMap = map[string]map[int]any{}
	a.defaultResponseMap = map[string]map[int]any{}
	a.responseStatus = map[string]map[int]int{}
	a.defaultResponseStatus = map[string]map[int]int{}
}

func (a *ApiMock) getResponseBody(method string, path string, index int) any {
	if key := findMatchingKey(keys(a.responseMap), method, path, false); key != "" {
		if response := a.responseMap[key][index]; response != nil {
			return response
		}
	}
	if key := findMatchingKey(keys(a.defaultResponseMap), method, path, false); key != "" {
		if response := a.defaultResponseMap[key][0]; response != nil {
			return response
		}
	}
	return map[string]any{}
}

func (a *ApiMock) getResponseStatus(method string, path string, index int) int {
	if key := findMatchingKey(keys(a.responseStatus), method, path, false); key != "" {
		if status := a.responseStatus[key][index]; status != 0 {
			return status
		}
	}
	if key := findMatchingKey(keys(a.defaultResponseStatus), method, path, false); key != "" {
		if status := a.defaultResponseStatus[key][0]; status != 0 {
			return status
		}
	}
	return http.StatusOK
}

func ensure[V any](m map[string]map[int]V, key string) map[int]V {
	if m[key] == nil {
		m[key] = map[int]V{}
	}
	return m[key]
}

func lookup[V any](m map[string]map[int]V, method, path string, index int) V {
	var zero V
	key := findMatchingKey(keys(m), method, path, true)
	if key == "" {
		return zero
	}
	return m[key][index]
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for key := range m {
		out = append(out, key)
	}
	return out
}

func matchPath(pattern string, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && pathParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}

// findMatchingKey prefers an exact key. Strict lookups ignore wildcard keys.
func findMatchingKey(keys []string, method string, path string, strict bool) string {
	exactKey := method + path
	for _, key := range keys {
		if key == exactKey {
			return key
		}
	}

	for _, key := range keys {
		if strict && strings.Contains(key, "*") {
			continue
		}
		if strings.HasPrefix(key, method) && matchPath(strings.TrimPrefix(key, method), path) {
			return key
		}
	}
	return ""
}
