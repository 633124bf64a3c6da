package handlers

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/internal/api/http/middleware"
	"github.com/weisyn/bookshelf/internal/core/infrastructure/log"
)

var (
	contractAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	signerAddr   = common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23")
)

type stubService struct {
	view    library.View
	books   []library.Book
	signer  *common.Address
	outcome library.Outcome
	calls   []string
	lastID  *big.Int
	added   []interface{}
}

func (s *stubService) View() library.View    { return s.view }
func (s *stubService) Books() []library.Book { return s.books }
func (s *stubService) Signer() (common.Address, bool) {
	if s.signer == nil {
		return common.Address{}, false
	}
	return *s.signer, true
}
func (s *stubService) GetAvailableBooks(context.Context) library.Outcome {
	s.calls = append(s.calls, "refresh")
	return s.outcome
}
func (s *stubService) AddBook(_ context.Context, name, author string, copies *big.Int) library.Outcome {
	s.calls = append(s.calls, "add")
	s.added = []interface{}{name, author, copies.String()}
	return s.outcome
}
func (s *stubService) BorrowBook(_ context.Context, id *big.Int) library.Outcome {
	s.calls = append(s.calls, "borrow")
	s.lastID = id
	return s.outcome
}
func (s *stubService) ReturnBook(_ context.Context, id *big.Int) library.Outcome {
	s.calls = append(s.calls, "return")
	s.lastID = id
	return s.outcome
}

func u64(n uint64) *uint64 { return &n }

func newTestRouter(svc LibraryService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.NewRequestID().Middleware())
	NewLibraryHandler(svc, contractAddr, log.NewNop()).RegisterRoutes(r.Group("/api/v1"))
	NewHealthHandler(svc, contractAddr, "http://127.0.0.1:8545").RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetState(t *testing.T) {
	svc := &stubService{view: library.View{Ready: true, AvailableBooks: u64(3)}, signer: &signerAddr}
	w := do(newTestRouter(svc), http.MethodGet, "/api/v1/state", "")

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["ready"])
	assert.Equal(t, false, data["loading"])
	assert.Equal(t, float64(3), data["availableBooks"])
	assert.Nil(t, data["error"])
	assert.Equal(t, contractAddr.Hex(), data["contract"])
	assert.Equal(t, signerAddr.Hex(), data["signer"])
}

func TestListBooksDoesNotCallContract(t *testing.T) {
	svc := &stubService{
		view:  library.View{Ready: true, AvailableBooks: u64(1)},
		books: []library.Book{{Id: big.NewInt(7), Name: "Dune", Author: "Herbert"}},
	}
	w := do(newTestRouter(svc), http.MethodGet, "/api/v1/books", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.calls)
	assert.JSONEq(t, `{"availableBooks":1,"books":[{"id":7,"name":"Dune","author":"Herbert"}]}`,
		mustJSON(t, decode(t, w)["data"]))
}

func TestRefresh(t *testing.T) {
	svc := &stubService{outcome: library.Outcome{Kind: library.KindGetAvailableBooks, Success: true, Payload: u64(4)}}
	w := do(newTestRouter(svc), http.MethodPost, "/api/v1/books/refresh", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"refresh"}, svc.calls)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["payload"])
}

func TestAddBook(t *testing.T) {
	svc := &stubService{outcome: library.Outcome{Kind: library.KindAddBook, Success: true, TxHash: "0xabc"}}
	r := newTestRouter(svc)

	w := do(r, http.MethodPost, "/api/v1/books", `{"name":"Dune","author":"Herbert","copies":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"Dune", "Herbert", "2"}, svc.added)

	w = do(r, http.MethodPost, "/api/v1/books", `{"name":"Dune","author":"Herbert","copies":"3"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", svc.added[2])
}

func TestAddBookValidation(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	for _, body := range []string{
		`{"author":"Herbert","copies":2}`,
		`{"name":"Dune","author":"Herbert","copies":-1}`,
		`{"name":"Dune","author":"Herbert","copies":1.5}`,
		`not json`,
	} {
		w := do(r, http.MethodPost, "/api/v1/books", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "INVALID_ARGUMENT", decode(t, w)["error"].(map[string]interface{})["code"])
	}
	assert.Empty(t, svc.calls)
}

func TestBorrowAndReturn(t *testing.T) {
	svc := &stubService{outcome: library.Outcome{Success: true}}
	r := newTestRouter(svc)

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/books/7/borrow", "").Code)
	assert.Equal(t, int64(7), svc.lastID.Int64())

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/v1/books/8/return", "").Code)
	assert.Equal(t, int64(8), svc.lastID.Int64())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/v1/books/abc/borrow", "").Code)
	assert.Equal(t, []string{"borrow", "return"}, svc.calls)
}

func TestFailureStatusMapping(t *testing.T) {
	cases := map[library.ErrorCategory]struct {
		status int
		code   string
	}{
		library.CategoryConcurrentOperation: {http.StatusConflict, "CONCURRENT_OPERATION"},
		library.CategoryNotReady:            {http.StatusServiceUnavailable, "NOT_READY"},
		library.CategoryInvalidRequest:      {http.StatusBadRequest, "INVALID_ARGUMENT"},
		library.CategoryLogicalRevert:       {http.StatusUnprocessableEntity, "EXECUTION_REVERTED"},
		library.CategorySignerRejected:      {http.StatusUnprocessableEntity, "SIGNER_REJECTED"},
		library.CategoryNetworkFailure:      {http.StatusUnprocessableEntity, "NETWORK_FAILURE"},
	}

	for category, want := range cases {
		t.Run(string(category), func(t *testing.T) {
			svc := &stubService{outcome: library.Outcome{
				Kind:     library.KindBorrowBook,
				Category: category,
				Reason:   "some reason",
			}}
			w := do(newTestRouter(svc), http.MethodPost, "/api/v1/books/7/borrow", "")

			assert.Equal(t, want.status, w.Code)
			e := decode(t, w)["error"].(map[string]interface{})
			assert.Equal(t, want.code, e["code"])
			assert.Equal(t, "some reason", e["message"])
			assert.NotEmpty(t, e["requestId"])
		})
	}
}

func TestHealth(t *testing.T) {
	svc := &stubService{}
	r := newTestRouter(svc)

	w := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "degraded", decode(t, w)["status"])
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/live", "").Code)

	svc.view = library.View{Ready: true}
	svc.signer = &signerAddr
	w = do(r, http.MethodGet, "/health", "")
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	signer := body["components"].(map[string]interface{})["signer"].(map[string]interface{})
	assert.Equal(t, "connected", signer["status"])
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health/ready", "").Code)
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
