package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// parseAPIResponse decodes the standard response envelope from a body.
func parseAPIResponse(t *testing.T, body io.Reader) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode API response: %v", err)
	}
	return resp
}

// -----------------------------------------------------------------------------
// Router Tests
// -----------------------------------------------------------------------------

func TestRouter_Matching(t *testing.T) {
	router := NewRouter()

	router.GET("/api/viewer", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"route": "viewer"})
	})
	router.GET("/api/documents/current/pages/:num", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"num": PathParam(r, "num")})
	})

	t.Run("exact match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/viewer", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
	})

	t.Run("path parameter extraction", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/documents/current/pages/3", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		resp := parseAPIResponse(t, rec.Body)
		data := resp.Data.(map[string]interface{})
		if data["num"] != "3" {
			t.Errorf("Expected path param num=3, got %v", data["num"])
		}
	})

	t.Run("method mismatch falls through to not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/viewer", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})

	t.Run("unknown path returns not found envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
		resp := parseAPIResponse(t, rec.Body)
		if resp.Success {
			t.Error("Expected failure envelope")
		}
		if resp.Error == nil || resp.Error.Code != "not_found" {
			t.Errorf("Expected not_found error, got %+v", resp.Error)
		}
	})
}

func TestMatchPath(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		matched bool
		params  map[string]string
	}{
		{"literal", "/api/viewer", "/api/viewer", true, map[string]string{}},
		{"param", "/api/pages/:num", "/api/pages/7", true, map[string]string{"num": "7"}},
		{"length mismatch", "/api/pages/:num", "/api/pages", false, nil},
		{"literal mismatch", "/api/viewer", "/api/documents", false, nil},
		{"trailing slash", "/api/viewer/", "/api/viewer", true, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, matched := matchPath(tt.pattern, tt.path)
			if matched != tt.matched {
				t.Fatalf("Expected matched=%v, got %v", tt.matched, matched)
			}
			for k, v := range tt.params {
				if params[k] != v {
					t.Errorf("Expected param %s=%s, got %s", k, v, params[k])
				}
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		body := bytes.NewBufferString(`{"language":"zh-CN"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/documents", body)

		var target GenerateDocumentRequest
		if err := ReadJSON(req, &target); err != nil {
			t.Fatalf("ReadJSON failed: %v", err)
		}
		if target.Language != "zh-CN" {
			t.Errorf("Expected language zh-CN, got %q", target.Language)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		body := bytes.NewBufferString(`{"language":`)
		req := httptest.NewRequest(http.MethodPost, "/api/documents", body)

		var target GenerateDocumentRequest
		if err := ReadJSON(req, &target); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}
