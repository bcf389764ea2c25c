//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/copydesk/copydesk/internal/api/handlers"
	"github.com/copydesk/copydesk/internal/embedding"
	"github.com/copydesk/copydesk/internal/llm"
	"github.com/copydesk/copydesk/internal/repository"
	"github.com/copydesk/copydesk/internal/server"
	"github.com/copydesk/copydesk/internal/service"
	"github.com/copydesk/copydesk/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	testUserID    = "user-e2e"
	testAuthToken = "cpd_e2e_token"

	altUserID    = "user-other"
	altAuthToken = "cpd_other_token"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	Completer    *stubCompleter
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a pgvector container
// and an in-process server.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	completer := &stubCompleter{response: "1. Save changes\n2. Keep editing\n3. Save and close"}
	serverURL, serverCloser := startServer(t, pool, completer, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		Completer:    completer,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

// Reset truncates all tables between tests.
func (e *E2ETestEnv) Reset() {
	if err := testutil.TruncateAll(e.Ctx, e.Pool); err != nil {
		e.T.Fatalf("failed to truncate tables: %v", err)
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path, authToken string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, authToken)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}, authToken string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, authToken)
}

// Put performs a PUT request
func (e *E2ETestEnv) Put(path string, body interface{}, authToken string) (*APIResponse, error) {
	return e.doRequest("PUT", path, body, authToken)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path, authToken string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil, authToken)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, authToken string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// MustParse unmarshals response data or fails the test.
func (e *E2ETestEnv) MustParse(resp *APIResponse, out interface{}) {
	if err := json.Unmarshal(resp.Data, out); err != nil {
		e.T.Fatalf("failed to parse response data: %v", err)
	}
}

// stubCompleter stands in for the chat API so generation runs offline.
type stubCompleter struct {
	mu       sync.Mutex
	response string
	fail     bool
	calls    int
}

func (s *stubCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return "", fmt.Errorf("completion backend down")
	}
	return s.response, nil
}

func (s *stubCompleter) SetFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *stubCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// startServer wires the full stack against the test database and starts an
// HTTP server on the given port.
func startServer(t *testing.T, pool *pgxpool.Pool, completer *stubCompleter, port int) (string, func()) {
	workspaceRepo := repository.NewWorkspaceRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	patternRepo := repository.NewPatternRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	embedder := embedding.NewHashEmbedder(embedding.DefaultDimensions)
	cache := service.NewMemoryVectorCache()
	hierarchy := service.NewHierarchyResolver(workspaceRepo)

	searchSvc := service.NewKnowledgeSearchService(chunkRepo, hierarchy, embedder, cache)
	workspaceSvc := service.NewWorkspaceService(workspaceRepo)
	documentSvc := service.NewDocumentService(workspaceRepo, documentRepo, chunkRepo, txRunner, embedder, cache)
	patternSvc := service.NewPatternService(patternRepo)
	assembler := service.NewContextAssembler(searchSvc, patternSvc)
	generationSvc := service.NewGenerationService(assembler, completer, patternSvc)

	authValidator, err := service.NewStaticTokenValidator(
		fmt.Sprintf("%s:%s,%s:%s", testAuthToken, testUserID, altAuthToken, altUserID),
	)
	if err != nil {
		t.Fatalf("failed to build token validator: %v", err)
	}

	cfg := server.RouterConfig{
		AuthValidator:    authValidator,
		WorkspaceHandler: handlers.NewWorkspaceHandler(workspaceSvc),
		DocumentHandler:  handlers.NewDocumentHandler(documentSvc, workspaceSvc),
		PatternHandler:   handlers.NewPatternHandler(patternSvc),
		SearchHandler:    handlers.NewSearchHandler(searchSvc, workspaceSvc),
		GenerateHandler:  handlers.NewGenerateHandler(generationSvc, workspaceSvc),
	}

	router := server.NewRouter(cfg)
	addr := fmt.Sprintf(":%d", port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
