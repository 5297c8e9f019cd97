package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/jacentio/bookshelf/api"
	"github.com/jacentio/bookshelf/book"
	"github.com/jacentio/bookshelf/store"
)

// --- Round trip ---

func TestCreateThenGet(t *testing.T) {
	r := api.NewRouter(store.NewMemory(), discard)

	w := serve(r, http.MethodPut, "/books/9780441013593", duneJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if got := decodeBook(t, w); !reflect.DeepEqual(got, dune()) {
		t.Errorf("expected created book %+v, got %+v", dune(), got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	w = serve(r, http.MethodGet, "/books/9780441013593", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decodeBook(t, w); !reflect.DeepEqual(got, dune()) {
		t.Errorf("expected %+v, got %+v", dune(), got)
	}
}

func TestCreateThenGet_FreeFormFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"year only release date", `{"isbn":"9780261102217","title":"The Hobbit","authors":["J. R. R. Tolkien"],"release_date":"1937"}`},
		{"negative pages", `{"isbn":"9780261102217","title":"The Hobbit","authors":["J. R. R. Tolkien"],"number_of_pages":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := api.NewRouter(store.NewMemory(), discard)

			w := serve(r, http.MethodPut, "/books/9780261102217", tt.body)
			if w.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
			}

			var sent book.Book
			if err := json.Unmarshal([]byte(tt.body), &sent); err != nil {
				t.Fatal(err)
			}
			if got := decodeBook(t, serve(r, http.MethodGet, "/books/9780261102217", "")); !reflect.DeepEqual(got, sent) {
				t.Errorf("expected %+v, got %+v", sent, got)
			}
		})
	}
}

func TestUpsertOverwrites(t *testing.T) {
	r := api.NewRouter(store.NewMemory(), discard)

	serve(r, http.MethodPut, "/books/9780441013593", duneJSON)
	w := serve(r, http.MethodPut, "/books/9780441013593", `{"isbn":"9780441013593","title":"Dune Messiah","authors":["Frank Herbert"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on replace, got %d", w.Code)
	}

	got := decodeBook(t, serve(r, http.MethodGet, "/books/9780441013593", ""))
	expected := book.Book{ISBN: "9780441013593", Title: "Dune Messiah", Authors: []string{"Frank Herbert"}}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected full replacement %+v, got %+v", expected, got)
	}
}

func TestListCompleteness(t *testing.T) {
	r := api.NewRouter(store.NewMemory(), discard)

	w := serve(r, http.MethodGet, "/books", "")
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("expected 200 [], got %d %s", w.Code, w.Body.String())
	}

	var want []string
	for i := 0; i < 4; i++ {
		isbn := fmt.Sprintf("isbn-%d", i)
		want = append(want, isbn)
		body := fmt.Sprintf(`{"isbn":%q,"title":"T%d","authors":["A"]}`, isbn, i)
		if w := serve(r, http.MethodPut, "/books/"+isbn, body); w.Code != http.StatusCreated {
			t.Fatalf("create %s: %d", isbn, w.Code)
		}
	}

	w = serve(r, http.MethodGet, "/books", "")
	var books []book.Book
	if err := json.Unmarshal(w.Body.Bytes(), &books); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	var got []string
	for _, b := range books {
		got = append(got, b.ISBN)
	}
	sort.Strings(got)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDeleteThenGet(t *testing.T) {
	tests := []struct {
		name    string
		present bool
	}{
		{"present", true},
		{"absent", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := api.NewRouter(store.NewMemory(), discard)
			if tt.present {
				serve(r, http.MethodPut, "/books/9780441013593", duneJSON)
			}

			w := serve(r, http.MethodDelete, "/books/9780441013593", "")
			if w.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", w.Code)
			}
			if w.Body.Len() != 0 {
				t.Errorf("expected empty body, got %q", w.Body.String())
			}

			w = serve(r, http.MethodGet, "/books/9780441013593", "")
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
			if code := decodeError(t, w).Code; code != api.CodeNotFound {
				t.Errorf("expected code %q, got %q", api.CodeNotFound, code)
			}
		})
	}
}

func TestIdempotentDelete(t *testing.T) {
	r := api.NewRouter(store.NewMemory(), discard)
	for i := 0; i < 2; i++ {
		if w := serve(r, http.MethodDelete, "/books/nothing", ""); w.Code != http.StatusNoContent {
			t.Errorf("delete %d: expected 204, got %d", i+1, w.Code)
		}
	}
}

// --- Validation ---

func TestValidationRejection(t *testing.T) {
	spy := newSpy()
	r := api.NewRouter(spy, discard)

	w := serve(r, http.MethodPut, "/books/123", `{"isbn":"123","authors":["A"]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	detail := decodeError(t, w)
	if detail.Code != api.CodeValidation {
		t.Errorf("expected code %q, got %q", api.CodeValidation, detail.Code)
	}
	if len(detail.Fields) != 1 || detail.Fields[0].Field != "title" || detail.Fields[0].Reason != book.ReasonMissing {
		t.Errorf("expected title missing, got %+v", detail.Fields)
	}
	if spy.calls.Load() != 0 {
		t.Errorf("expected no store calls, got %d", spy.calls.Load())
	}

	if w := serve(r, http.MethodGet, "/books/123", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after rejected create, got %d", w.Code)
	}
}

func TestValidation_Bodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"empty body", ``, []string{""}},
		{"not an object", `[]`, []string{""}},
		{"all required missing", `{}`, []string{"isbn", "title", "authors"}},
		{"nested isbn", `{"isbn":{"Isbn13":"123"},"title":"T","authors":["A"]}`, []string{"isbn"}},
		{"authors string", `{"isbn":"123","title":"T","authors":"A"}`, []string{"authors"}},
		{"blank isbn", `{"isbn":"   ","title":"T","authors":["A"]}`, []string{"isbn"}},
		{"blank title", `{"isbn":"123","title":" ","authors":["A"]}`, []string{"title"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := newSpy()
			w := serve(api.NewRouter(spy, discard), http.MethodPut, "/books/123", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var got []string
			for _, f := range decodeError(t, w).Fields {
				got = append(got, f.Field)
			}
			if !reflect.DeepEqual(got, tt.fields) {
				t.Errorf("expected fields %v, got %v", tt.fields, got)
			}
			if spy.calls.Load() != 0 {
				t.Errorf("expected no store calls, got %d", spy.calls.Load())
			}
		})
	}
}

func TestCreate_ISBNMismatch(t *testing.T) {
	spy := newSpy()
	w := serve(api.NewRouter(spy, discard), http.MethodPut, "/books/111", `{"isbn":"222","title":"T","authors":["A"]}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	detail := decodeError(t, w)
	if len(detail.Fields) != 1 || detail.Fields[0].Reason != book.ReasonMismatch {
		t.Errorf("expected isbn mismatch, got %+v", detail.Fields)
	}
	if spy.calls.Load() != 0 {
		t.Errorf("expected no store calls, got %d", spy.calls.Load())
	}
}

func TestCreate_EscapedISBN(t *testing.T) {
	r := api.NewRouter(store.NewMemory(), discard)
	w := serve(r, http.MethodPut, "/books/978%2F0", `{"isbn":"978/0","title":"T","authors":["A"]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	if w := serve(r, http.MethodGet, "/books/978%2F0", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// --- Store failures ---

func TestStoreErrors(t *testing.T) {
	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/books", ""},
		{http.MethodGet, "/books/1", ""},
		{http.MethodPut, "/books/1", `{"isbn":"1","title":"T","authors":["A"]}`},
		{http.MethodDelete, "/books/1", ""},
	}

	r := api.NewRouter(failingStore{}, discard)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, tt.body)
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", w.Code)
			}
			if code := decodeError(t, w).Code; code != api.CodeInternal {
				t.Errorf("expected code %q, got %q", api.CodeInternal, code)
			}
			if strings.Contains(w.Body.String(), errStore.Error()) {
				t.Error("expected store error text not to leak into the response")
			}
		})
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := api.NewRouter(store.NewMemory(), discard)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/1", nil).WithContext(ctx))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for cancelled request, got %d", w.Code)
	}
}

// --- CORS ---

func TestPreflight(t *testing.T) {
	spy := newSpy()
	r := api.NewRouter(spy, discard)

	expected := map[string]string{
		"Access-Control-Allow-Headers":     "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Amz-User-Agent",
		"Access-Control-Allow-Origin":      "*",
		"Access-Control-Allow-Credentials": "false",
		"Access-Control-Allow-Methods":     "OPTIONS,GET,PUT,POST,DELETE",
	}

	// Interleave state changes; the preflight answer must never vary.
	for i, isbn := range []string{"1", "2", "1"} {
		w := serve(r, http.MethodOptions, "/books/"+isbn, "")
		if w.Code != http.StatusOK {
			t.Fatalf("preflight %d: expected 200, got %d", i, w.Code)
		}
		for k, v := range expected {
			if got := w.Header().Values(k); len(got) != 1 || got[0] != v {
				t.Errorf("preflight %d: expected %s %q, got %q", i, k, v, got)
			}
		}
		if w.Body.Len() != 0 {
			t.Errorf("preflight %d: expected empty body", i)
		}
		serve(r, http.MethodPut, "/books/"+isbn, fmt.Sprintf(`{"isbn":%q,"title":"T","authors":[]}`, isbn))
	}

	before := spy.calls.Load()
	serve(r, http.MethodOptions, "/books/1", "")
	if spy.calls.Load() != before {
		t.Error("expected preflight not to touch the store")
	}
}

func TestPreflight_FailingStore(t *testing.T) {
	w := serve(api.NewRouter(failingStore{}, discard), http.MethodOptions, "/books/1", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 regardless of store state, got %d", w.Code)
	}
}

func TestCORSHeaders_Copy(t *testing.T) {
	h := api.CORSHeaders()
	h["Access-Control-Allow-Origin"] = "https://example.com"
	if api.CORSHeaders()["Access-Control-Allow-Origin"] != "*" {
		t.Error("expected CORSHeaders to return a fresh map")
	}
}

// --- Routing ---

func TestRouting_Unmatched(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   string
		allow  string
	}{
		{"unknown resource", http.MethodGet, "/authors", http.StatusNotFound, api.CodeRouteNotFound, ""},
		{"too deep", http.MethodGet, "/books/1/pages", http.StatusNotFound, api.CodeRouteNotFound, ""},
		{"root", http.MethodGet, "/", http.StatusNotFound, api.CodeRouteNotFound, ""},
		{"trailing slash", http.MethodGet, "/books/", http.StatusNotFound, api.CodeRouteNotFound, ""},
		{"post collection", http.MethodPost, "/books", http.StatusMethodNotAllowed, api.CodeMethodNotAllowed, "GET"},
		{"head collection", http.MethodHead, "/books", http.StatusMethodNotAllowed, api.CodeMethodNotAllowed, "GET"},
		{"options collection", http.MethodOptions, "/books", http.StatusMethodNotAllowed, api.CodeMethodNotAllowed, "GET"},
		{"post item", http.MethodPost, "/books/1", http.StatusMethodNotAllowed, api.CodeMethodNotAllowed, "DELETE, GET, OPTIONS, PUT"},
		{"patch item", http.MethodPatch, "/books/1", http.StatusMethodNotAllowed, api.CodeMethodNotAllowed, "DELETE, GET, OPTIONS, PUT"},
	}

	r := api.NewRouter(store.NewMemory(), discard)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, "")
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if code := decodeError(t, w).Code; code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, code)
			}
			if allow := w.Header().Get("Allow"); allow != tt.allow {
				t.Errorf("expected Allow %q, got %q", tt.allow, allow)
			}
		})
	}
}

func TestRouting_BlankISBN(t *testing.T) {
	r := api.NewRouter(store.NewMemory(), discard)
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := serve(r, method, "/books/%20", "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", method, w.Code)
		}
		if msg := decodeError(t, w).Message; msg != "isbn is required" {
			t.Errorf("%s: expected 'isbn is required', got %q", method, msg)
		}
	}
}

func TestRouting_RequestID(t *testing.T) {
	r := api.NewRouter(store.NewMemory(), discard)

	w := serve(r, http.MethodGet, "/books", "")
	if w.Header().Get(api.HeaderRequestID) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/authors", nil)
	req.Header.Set(api.HeaderRequestID, "trace-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(api.HeaderRequestID); got != "trace-42" {
		t.Errorf("expected request id echoed on unmatched routes, got %q", got)
	}
}

func TestRouter_Routes(t *testing.T) {
	routes := api.NewRouter(store.NewMemory(), discard).Routes()

	var got []string
	for _, route := range routes {
		got = append(got, route.Method+" "+route.Pattern)
	}
	expected := []string{
		"GET /books",
		"GET /books/{isbn}",
		"PUT /books/{isbn}",
		"DELETE /books/{isbn}",
		"OPTIONS /books/{isbn}",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
	for _, route := range routes {
		if route.Validate != (route.Method == http.MethodPut) {
			t.Errorf("unexpected Validate=%v on %s %s", route.Validate, route.Method, route.Pattern)
		}
	}
}

func TestNewRouterWithRoutes(t *testing.T) {
	r := api.NewRouterWithRoutes([]api.Route{{
		Method:  http.MethodGet,
		Pattern: "/ping/{who}",
		Handler: func(_ context.Context, req *api.Request) *api.Response {
			return api.JSON(http.StatusOK, map[string]string{"pong": req.Param("who")})
		},
	}}, nil)

	w := serve(r, http.MethodGet, "/ping/bilbo", "")
	if w.Body.String() != `{"pong":"bilbo"}` {
		t.Errorf("unexpected body %s", w.Body.String())
	}
	if w := serve(r, http.MethodDelete, "/ping/bilbo", ""); w.Header().Get("Allow") != "GET" {
		t.Errorf("expected Allow GET, got %q", w.Header().Get("Allow"))
	}
}

// --- Handlers used directly ---

func TestCreate_WithoutRouter(t *testing.T) {
	m := store.NewMemory()
	h := api.Create(m, discard)

	rsp := h(context.Background(), &api.Request{
		Params: map[string]string{"isbn": "123"},
		Body:   []byte(`{"isbn":"123","authors":["A"]}`),
	})
	if rsp.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rsp.Status)
	}
	if m.Len() != 0 {
		t.Error("expected no write for invalid body")
	}
}

func TestList_NilFromStore(t *testing.T) {
	h := api.List(nilListStore{}, nil)
	rsp := h(context.Background(), &api.Request{})
	if string(rsp.Body) != "[]" {
		t.Errorf("expected [], got %s", rsp.Body)
	}
}

type nilListStore struct{ failingStore }

func (nilListStore) List(context.Context) ([]book.Book, error) { return nil, nil }
