package db

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestExtractTenantID_FromHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-ID", "clinic_abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	tid := extractTenantID(c, "default")
	if tid != "clinic_abc" {
		t.Errorf("expected clinic_abc, got %s", tid)
	}
}

func TestExtractTenantID_FromQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?tenant_id=clinic_xyz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	tid := extractTenantID(c, "default")
	if tid != "clinic_xyz" {
		t.Errorf("expected clinic_xyz, got %s", tid)
	}
}

func TestExtractTenantID_FromJWT(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("jwt_tenant_id", "jwt_tenant")

	tid := extractTenantID(c, "default")
	if tid != "jwt_tenant" {
		t.Errorf("expected jwt_tenant, got %s", tid)
	}
}

func TestExtractTenantID_Default(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	tid := extractTenantID(c, "default")
	if tid != "default" {
		t.Errorf("expected default, got %s", tid)
	}
}

func TestExtractTenantID_Priority(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?tenant_id=query", nil)
	req.Header.Set("X-Tenant-ID", "header")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("jwt_tenant_id", "jwt")

	// JWT takes highest priority
	tid := extractTenantID(c, "default")
	if tid != "jwt" {
		t.Errorf("expected jwt (highest priority), got %s", tid)
	}
}

func TestExtractTenantID_HeaderPriorityOverQuery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?tenant_id=query_tenant", nil)
	req.Header.Set("X-Tenant-ID", "header_tenant")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	tid := extractTenantID(c, "default")
	if tid != "header_tenant" {
		t.Errorf("expected header_tenant (header has priority over query), got %s", tid)
	}
}

func TestExtractTenantID_EmptyJWT(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Tenant-ID", "header_tenant")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	// Empty jwt_tenant_id should fall through to the header
	c.Set("jwt_tenant_id", "")

	tid := extractTenantID(c, "default")
	if tid != "header_tenant" {
		t.Errorf("expected header_tenant when JWT is empty, got %s", tid)
	}
}

func TestTenantIDPattern(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"abc", true},
		{"ABC", true},
		{"abc123", true},
		{"clinic_1", true},
		{"tenant_abc_123", true},
		{"a", true},
		{"a-b", false},
		{"a.b", false},
		{"a b", false},
		{"a/b", false},
		{"", false},
		{"$pecial", false},
		{"'; DROP TABLE", false},
	}

	for _, tt := range tests {
		got := tenantIDPattern.MatchString(tt.input)
		if got != tt.valid {
			t.Errorf("tenantIDPattern.MatchString(%q) = %v, want %v", tt.input, got, tt.valid)
		}
	}
}

func TestQuerierFromContext_Nil(t *testing.T) {
	q := QuerierFromContext(context.Background())
	if q != nil {
		t.Error("expected nil querier from empty context")
	}
}

func TestQuerierFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), DBConnKey, "not-a-querier")
	q := QuerierFromContext(ctx)
	if q != nil {
		t.Error("expected nil when context value is wrong type")
	}
}

func TestTenantFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, "test_tenant")
	tid := TenantFromContext(ctx)
	if tid != "test_tenant" {
		t.Errorf("expected test_tenant, got %s", tid)
	}

	empty := TenantFromContext(context.Background())
	if empty != "" {
		t.Errorf("expected empty string, got %s", empty)
	}
}

func TestTenantFromContext_WithWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), TenantIDKey, 12345)
	tid := TenantFromContext(ctx)
	if tid != "" {
		t.Errorf("expected empty string when context value is wrong type, got %q", tid)
	}
}

func TestCreateTenantSchema_InvalidID(t *testing.T) {
	invalidIDs := []string{"invalid-id!", "tenant.with.dot", "ten ant", "drop;table", ""}
	for _, id := range invalidIDs {
		err := CreateTenantSchema(context.Background(), nil, id, "")
		if err == nil {
			t.Errorf("expected error for invalid tenant ID %q", id)
		}
	}
}
