package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/verdipos/verdi_backend/config"
	"github.com/verdipos/verdi_backend/models"
)

type testServer struct {
	router  *gin.Engine
	session *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	t.Setenv("STORAGE_PROVIDER", "local")
	t.Setenv("STATIC_DIR", filepath.Join(dir, "static"))
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	if err := config.ConnectDatabase("sqlite:///" + filepath.Join(dir, "server.db")); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := config.GetDB().DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	models.MigrateTable()
	if _, err := models.EnsureDefaultAdmin(context.Background()); err != nil {
		t.Fatalf("default admin: %v", err)
	}

	router, err := setupRouter(config.GetLogger())
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return &testServer{router: router}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.session != nil {
		req.AddCookie(s.session)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	rec := s.postForm("/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/pos" {
		t.Fatalf("login: expected redirect to /pos, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	cookie := findCookie(rec, "session")
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("login: no session cookie")
	}
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	s.session = cookie
}

func TestUnauthenticatedRequests(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/pos", "/products", "/reports", "/api/products/search?q=a"} {
		rec := s.get(path)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %d %q", path, rec.Code, rec.Header().Get("Location"))
		}
	}

	rec := s.get("/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("healthz: got %d %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(correlationIdHeader) == "" {
		t.Fatalf("expected a correlation id header")
	}

	rec = s.get("/login")
	if rec.Code != http.StatusOK {
		t.Fatalf("login page: got %d", rec.Code)
	}
}

func TestLoginLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.postForm("/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("bad password: expected redirect to /login, got %d", rec.Code)
	}
	if findCookie(rec, "session") != nil {
		t.Fatalf("bad password must not issue a session")
	}
	if findCookie(rec, "flash") == nil {
		t.Fatalf("bad password should flash a message")
	}

	s.login(t)
	rec = s.get("/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/pos" {
		t.Fatalf("root: expected redirect to /pos, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = s.get("/logout")
	if rec.Code != http.StatusFound {
		t.Fatalf("logout: got %d", rec.Code)
	}
	cleared := findCookie(rec, "session")
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("logout should expire the session cookie, got %+v", cleared)
	}

	s.session = &http.Cookie{Name: "session", Value: "not-a-token"}
	rec = s.get("/pos")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("garbage session: expected redirect to /login, got %d", rec.Code)
	}
}

func TestPagesRender(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	ctx := context.Background()

	product, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Tea", Price: decimal.NewFromInt(10), StockQty: 3})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Nile Foods"})
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	rec := s.postForm("/supplier-invoices", url.Values{
		"supplier_id": {fmt.Sprint(supplier.ID)},
		"paid":        {"5"},
		"items_json":  {fmt.Sprintf(`[{"id": %d, "qty": 2, "cost": "4"}]`, product.ID)},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("supplier invoice: got %d", rec.Code)
	}
	rec = s.postForm("/shifts/open", url.Values{"opening_cash": {"100"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("open shift: got %d", rec.Code)
	}

	pages := []string{
		"/pos", "/products", "/inventory", "/print-barcodes", "/sales", "/customers",
		"/suppliers", "/supplier-invoices", "/supplier-invoice/1", "/returns", "/shifts",
		"/reports", "/settings",
	}
	for _, path := range pages {
		rec := s.get(path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}

	for _, path := range []string{"/supplier-invoice/999", "/invoice/999", "/no-such-page"} {
		if rec := s.get(path); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestSaleAPI(t *testing.T) {
	s := newTestServer(t)
	s.login(t)
	ctx := context.Background()

	product, err := models.CreateProduct(ctx, &models.NewProduct{Name: "Coffee", Price: decimal.NewFromInt(25), StockQty: 10})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	rec := s.get("/api/products/search?q=COF")
	var found []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &found); err != nil || len(found) != 1 {
		t.Fatalf("search: expected one match, got %s (%v)", rec.Body.String(), err)
	}

	rec = s.postJSON("/api/sale", map[string]interface{}{
		"items":         []map[string]interface{}{{"id": product.ID, "name": "Coffee", "qty": "2", "price": 25}},
		"discount":      5,
		"tax":           0,
		"customer_name": "Omar",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("sale: got %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Message string `json:"message"`
		SaleId  int    `json:"sale_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil || created.SaleId == 0 {
		t.Fatalf("sale response: %s (%v)", rec.Body.String(), err)
	}

	rec = s.get(fmt.Sprintf("/api/sale/%d", created.SaleId))
	if rec.Code != http.StatusOK {
		t.Fatalf("sale detail: got %d", rec.Code)
	}
	var detail struct {
		Customer  string  `json:"customer"`
		Total     float64 `json:"total"`
		CreatedAt string  `json:"created_at"`
		Items     []struct {
			ProductName string `json:"product_name"`
			Qty         int    `json:"qty"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("sale detail json: %v", err)
	}
	if detail.Customer != "Omar" || detail.Total != 45 || len(detail.Items) != 1 || detail.Items[0].Qty != 2 {
		t.Fatalf("unexpected sale detail: %+v", detail)
	}
	if len(detail.CreatedAt) != len("2006-01-02 15:04") {
		t.Fatalf("unexpected created_at format %q", detail.CreatedAt)
	}

	if rec := s.get(fmt.Sprintf("/invoice/%d", created.SaleId)); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Omar") {
		t.Fatalf("invoice page: got %d", rec.Code)
	}
	if rec := s.get("/sales"); !strings.Contains(rec.Body.String(), "Omar") {
		t.Fatalf("sales page should show the customer name")
	}

	stored, err := models.GetProduct(ctx, product.ID)
	if err != nil || stored.StockQty != 8 {
		t.Fatalf("expected stock 8, got %+v (%v)", stored, err)
	}

	if rec := s.get("/api/sale/999"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing sale: expected 404, got %d", rec.Code)
	}
}

func TestSaleAPIRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	cases := []struct {
		name string
		body interface{}
	}{
		{"negative qty", map[string]interface{}{"items": []map[string]interface{}{{"name": "x", "qty": -1, "price": 1}}}},
		{"negative discount", map[string]interface{}{"items": []map[string]interface{}{{"name": "x", "qty": 1, "price": 1}}, "discount": -3}},
		{"not json", "nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.postJSON("/api/sale", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"error"`) {
				t.Fatalf("expected an error body, got %s", rec.Body.String())
			}
		})
	}

	var count int64
	config.GetDB().Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no sales, got %d", count)
	}
}

func TestReturnWithMalformedItems(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	for _, itemsJSON := range []string{"not json", "[]", ""} {
		rec := s.postForm("/returns", url.Values{"items_json": {itemsJSON}, "note": {"broken"}})
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/returns" {
			t.Fatalf("%q: expected redirect to /returns, got %d", itemsJSON, rec.Code)
		}
		if findCookie(rec, "flash") == nil {
			t.Fatalf("%q: expected a flash message", itemsJSON)
		}
	}

	var count int64
	config.GetDB().Model(&models.SalesReturn{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no return rows, got %d", count)
	}
}

func TestShiftCloseTwice(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	s.postForm("/shifts/open", url.Values{"opening_cash": {"50"}})
	form := url.Values{"closing_cash": {"170"}, "sales_total": {"100"}}
	if rec := s.postForm("/shifts/1/close", form); rec.Code != http.StatusFound {
		t.Fatalf("close: got %d", rec.Code)
	}
	shifts, err := models.ListShifts(context.Background(), 0)
	if err != nil || len(shifts) != 1 {
		t.Fatalf("list shifts: %v", err)
	}
	if shifts[0].CashierName != "admin" || !shifts[0].DiffCash.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected shift: %+v", shifts[0])
	}

	rec := s.postForm("/shifts", url.Values{"action": {"close"}, "shift_id": {"1"}, "closing_cash": {"1"}})
	if rec.Code != http.StatusFound || findCookie(rec, "flash") == nil {
		t.Fatalf("second close should redirect with a flash, got %d", rec.Code)
	}
	shifts, _ = models.ListShifts(context.Background(), 0)
	if !shifts[0].ClosingCash.Equal(decimal.NewFromInt(170)) {
		t.Fatalf("closed shift must not change, got %s", shifts[0].ClosingCash)
	}
}

func TestEditUnknownRecordIsNotFound(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	cases := []struct {
		path string
		form url.Values
	}{
		{"/products/999/update", url.Values{"name": {"Tea"}, "price": {"2"}}},
		{"/products/999/delete", url.Values{}},
		{"/products/abc/delete", url.Values{}},
		{"/suppliers/999/update", url.Values{"name": {"Acme"}}},
		{"/suppliers/999/delete", url.Values{}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := s.postForm(tc.path, tc.form)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d (Location %q)", rec.Code, rec.Header().Get("Location"))
			}
		})
	}

	// validation failures on a known record still flash back to the list
	product, err := models.CreateProduct(context.Background(), &models.NewProduct{Name: "Tea", Price: decimal.NewFromInt(2), StockQty: 1})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	rec := s.postForm(fmt.Sprintf("/products/%d/update", product.ID), url.Values{"price": {"-1"}})
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/products" || findCookie(rec, "flash") == nil {
		t.Fatalf("negative price: expected flash redirect, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestExports(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	if _, err := models.CreateCustomer(context.Background(), &models.NewCustomer{Name: "Hana"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	rec := s.get("/customers/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("customers export: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/vnd.ms-excel") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "\ufeffid,name,phone,total_purchases") {
		t.Fatalf("unexpected csv: %q", rec.Body.String())
	}

	rec = s.get("/reports/export")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("report export: got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	// xlsx is a zip archive
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Fatalf("report export is not an xlsx file")
	}
}

func TestBarcodeImageAPI(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.get("/api/barcode-image/123456789012")
	var body struct {
		Success bool   `json:"success"`
		Image   string `json:"image"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || !strings.HasPrefix(body.Image, "data:image/svg+xml;base64,") {
		t.Fatalf("unexpected barcode response: %s", rec.Body.String())
	}
}

func TestSettingsLogoPath(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.postForm("/settings", url.Values{"logo_path": {"/static/logo.png"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("save settings: got %d", rec.Code)
	}
	value, err := models.GetSetting(context.Background(), models.SettingLogoPath)
	if err != nil || value != "/static/logo.png" {
		t.Fatalf("expected saved logo path, got %q (%v)", value, err)
	}
	if rec := s.get("/pos"); !strings.Contains(rec.Body.String(), "/static/logo.png") {
		t.Fatalf("pages should show the logo")
	}
}
