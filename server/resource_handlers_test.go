package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/jrsteele09/go-session-client/server"
	"github.com/jrsteele09/go-session-client/users"
	"github.com/stretchr/testify/require"
)

func newFullBackend(t *testing.T) (*testBackend, string) {
	b := newBackendWith(t, server.InMemoryRepos())
	return b, b.login(adminEmail, adminPassword)["token"].(string)
}

// call sends body as JSON and decodes any response body into out
func (b *testBackend) call(method, path, token string, body, out any) *http.Response {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.srv.URL+path, reader)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(b.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (b *testBackend) upload(token, filename, mimeType string, content []byte) (*http.Response, map[string]any) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", mimeType)
	part, err := form.CreatePart(header)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, form.Close())

	req, err := http.NewRequest(http.MethodPost, b.srv.URL+server.RouteFilesUpload, &buf)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestResourceRoutes_MountedOnlyWithRepos(t *testing.T) {
	b := newTestBackend(t)
	token := b.login(adminEmail, adminPassword)["token"].(string)
	resp, _ := b.do(http.MethodGet, server.RouteCustomers, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResourceRoutes_RequireBearer(t *testing.T) {
	b, _ := newFullBackend(t)
	for _, path := range []string{server.RouteCustomers, server.RouteOrders, server.RouteProducts, server.RoutePayments, server.RouteFiles} {
		resp, out := b.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		require.Equal(t, "Not authenticated", out["detail"])
	}
}

func TestCustomers(t *testing.T) {
	b, token := newFullBackend(t)

	resp, first := b.do(http.MethodPost, server.RouteCustomers, token, map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "city": "London",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, first)
	require.Equal(t, "adalovelace", first["username"])
	require.Equal(t, "Ada Lovelace", first["full_name"])
	require.Equal(t, true, first["marketing_emails"])
	require.Regexp(t, `^CUST_[0-9A-F]{8}$`, first["customer_id"])

	resp, out := b.do(http.MethodPost, server.RouteCustomers, token, map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ADA@example.com",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Customer with this email already exists", out["detail"])

	resp, second := b.do(http.MethodPost, server.RouteCustomers, token, map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada2@example.com", "city": "Paris",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "adalovelace01", second["username"])

	id := first["customer_id"].(string)
	resp, out = b.do(http.MethodGet, "/api/v1/customers/username/adalovelace01", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ada2@example.com", out["email"])
	resp, out = b.do(http.MethodGet, "/api/v1/customers/email/ada@example.com", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, id, out["customer_id"])

	resp, out = b.do(http.MethodPatch, "/api/v1/customers/"+id+"/verify-email", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Customer email verified successfully", out["message"])

	resp, out = b.do(http.MethodPut, "/api/v1/customers/"+id, token, map[string]any{"city": "Cambridge"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Cambridge", out["city"])
	require.Equal(t, true, out["email_verified"])

	resp, out = b.do(http.MethodDelete, "/api/v1/customers/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Customer deleted successfully", out["message"])

	resp, out = b.do(http.MethodGet, "/api/v1/customers/?is_active=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["total"])
	require.EqualValues(t, 1, out["page"])
	require.EqualValues(t, 1, out["total_pages"])

	resp, out = b.do(http.MethodPost, server.RouteCustomersSearch, token, map[string]any{"city": "paris"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["total"])
	require.EqualValues(t, 10, out["limit"])

	resp, _ = b.do(http.MethodDelete, "/api/v1/customers/"+id+"/hard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, out = b.do(http.MethodGet, "/api/v1/customers/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Customer not found", out["detail"])
}

func orderBody(customerID string) map[string]any {
	return map[string]any{
		"customer_id":      customerID,
		"customer_name":    "Ada Lovelace",
		"customer_email":   "ada@example.com",
		"shipping_address": "12 St James's Square, London",
		"items": []map[string]any{
			{"product_id": "p1", "product_name": "Engine", "quantity": 2, "unit_price": 10.0, "total_price": 20.0},
		},
	}
}

func TestOrders(t *testing.T) {
	b, token := newFullBackend(t)

	resp, order := b.do(http.MethodPost, server.RouteOrders, token, orderBody("CUST_1"))
	require.Equal(t, http.StatusOK, resp.StatusCode, order)
	require.Equal(t, "pending", order["status"])
	require.EqualValues(t, 20, order["subtotal"])
	require.EqualValues(t, 2, order["tax"])
	require.EqualValues(t, 10, order["shipping_cost"])
	require.EqualValues(t, 32, order["total_amount"])
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?$`, order["created_at"], "stored without a zone")

	resp, _ = b.do(http.MethodPost, server.RouteOrders, token, orderBody("CUST_2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	bad := orderBody("CUST_1")
	bad["items"] = []map[string]any{}
	resp, _ = b.do(http.MethodPost, server.RouteOrders, token, bad)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	id := order["id"].(string)
	resp, out := b.do(http.MethodPatch, "/api/v1/orders/"+id+"/status?status=shipped", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "shipped", out["status"])
	resp, _ = b.do(http.MethodPatch, "/api/v1/orders/"+id+"/status?status=lost", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, out = b.do(http.MethodGet, "/api/v1/orders/customer/CUST_1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["total"])
	require.EqualValues(t, 10, out["size"])

	resp, out = b.do(http.MethodGet, "/api/v1/orders/?status=shipped", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["total"])

	resp, out = b.do(http.MethodDelete, "/api/v1/orders/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Order deleted successfully", out["message"])
	resp, out = b.do(http.MethodGet, "/api/v1/orders/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Order not found", out["detail"])
}

func productBody(name, sku string, price float64, category string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "A product used in tests",
		"category":    category,
		"sku":         sku,
		"base_price":  price,
		"created_by":  adminEmail,
		"variants":    []map[string]any{{"name": "size", "value": "M", "stock_quantity": 3}},
	}
}

func TestProducts(t *testing.T) {
	b, token := newFullBackend(t)

	resp, lamp := b.do(http.MethodPost, server.RouteProducts, token, productBody("Lamp", "LMP-1", 30, "home_garden"))
	require.Equal(t, http.StatusOK, resp.StatusCode, lamp)
	require.EqualValues(t, 3, lamp["total_stock"])
	require.Equal(t, "active", lamp["status"])
	require.Equal(t, true, lamp["is_taxable"])

	resp, out := b.do(http.MethodPost, server.RouteProducts, token, productBody("Lamp 2", "LMP-1", 10, "home_garden"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Product with SKU LMP-1 already exists", out["detail"])

	resp, _ = b.do(http.MethodPost, server.RouteProducts, token, productBody("Book", "BK-1", 12, "books"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out = b.do(http.MethodGet, "/api/v1/products/sku/BK-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Book", out["name"])

	id := lamp["id"].(string)
	resp, out = b.do(http.MethodPatch, "/api/v1/products/"+id+"/feature?is_featured=true", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, out["is_featured"])

	var featured []map[string]any
	resp = b.call(http.MethodGet, server.RouteProductsFeatured, token, nil, &featured)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, featured, 1)
	require.Equal(t, id, featured[0]["id"])

	var byCategory []map[string]any
	b.call(http.MethodGet, "/api/v1/products/category/books", token, nil, &byCategory)
	require.Len(t, byCategory, 1)

	var categories []string
	b.call(http.MethodGet, server.RouteProductCategories, token, nil, &categories)
	require.Len(t, categories, 11)

	var page struct {
		Products []map[string]any `json:"products"`
		Total    int              `json:"total"`
	}
	b.call(http.MethodPost, server.RouteProductsSearch, token, map[string]any{"sort_by": "base_price", "sort_order": "asc"}, &page)
	require.Equal(t, 2, page.Total)
	require.Equal(t, "Book", page.Products[0]["name"])

	resp, out = b.do(http.MethodPatch, "/api/v1/products/"+id+"/status?status=discontinued", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "discontinued", out["status"])
	b.call(http.MethodGet, server.RouteProductsFeatured, token, nil, &featured)
	require.Empty(t, featured)

	resp, out = b.do(http.MethodDelete, "/api/v1/products/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Product deleted successfully", out["message"])
}

func TestPaymentsAndRefunds(t *testing.T) {
	b, token := newFullBackend(t)

	fee := 1.5
	resp, payment := b.do(http.MethodPost, server.RoutePayments, token, map[string]any{
		"order_id":               "ORD-1",
		"customer_id":            "CUST_1",
		"amount":                 100.0,
		"currency":               "USD",
		"payment_method":         map[string]any{"method_type": "credit_card", "provider": "stripe", "last_four": "4242"},
		"application_fee_amount": fee,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, payment)
	require.Equal(t, "pending", payment["status"])
	require.Equal(t, "automatic", payment["capture_method"])
	require.EqualValues(t, 98.5, payment["net_amount"])
	require.Regexp(t, `^PAY_[0-9A-F]{8}$`, payment["id"])

	resp, _ = b.do(http.MethodPost, server.RoutePayments, token, map[string]any{
		"order_id": "ORD-1", "customer_id": "CUST_1", "amount": 5.0, "currency": "XYZ",
		"payment_method": map[string]any{"method_type": "cash", "provider": "custom"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	id := payment["id"].(string)
	resp, out := b.do(http.MethodPost, "/api/v1/payments/"+id+"/process", token, map[string]any{"provider_payment_id": "pi_123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Payment processed successfully", out["message"])

	resp, out = b.do(http.MethodGet, "/api/v1/payments/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "completed", out["status"])
	require.Equal(t, "pi_123", out["provider_payment_id"])
	require.NotNil(t, out["processed_at"])

	resp, refund := b.do(http.MethodPost, server.RouteRefunds, token, map[string]any{"payment_id": id, "amount": 40.0, "reason": "damaged"})
	require.Equal(t, http.StatusOK, resp.StatusCode, refund)
	require.Equal(t, "completed", refund["status"])
	require.Equal(t, "USD", refund["currency"])
	_, out = b.do(http.MethodGet, "/api/v1/payments/"+id, token, nil)
	require.Equal(t, "partially_refunded", out["status"])

	resp, _ = b.do(http.MethodPost, server.RouteRefunds, token, map[string]any{"payment_id": id})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, out = b.do(http.MethodGet, "/api/v1/payments/"+id, token, nil)
	require.Equal(t, "refunded", out["status"])

	resp, out = b.do(http.MethodPost, server.RouteRefunds, token, map[string]any{"payment_id": "PAY_MISSING"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "Payment not found", out["detail"])

	var refunds []map[string]any
	b.call(http.MethodGet, "/api/v1/payments/"+id+"/refunds", token, nil, &refunds)
	require.Len(t, refunds, 2)
	resp, out = b.do(http.MethodGet, "/api/v1/payments/refunds/"+refund["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "damaged", out["reason"])

	var byOrder []map[string]any
	b.call(http.MethodGet, "/api/v1/payments/order/ORD-1", token, nil, &byOrder)
	require.Len(t, byOrder, 1)

	resp, out = b.do(http.MethodGet, "/api/v1/payments/customer/CUST_1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["total"])
	require.EqualValues(t, 20, out["size"])

	resp, out = b.do(http.MethodPatch, "/api/v1/payments/"+id+"/status?status=disputed&failure_reason=chargeback", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Payment status updated to disputed", out["message"])
	_, out = b.do(http.MethodGet, "/api/v1/payments/"+id, token, nil)
	require.Equal(t, "chargeback", out["failure_reason"])

	var currencies []string
	b.call(http.MethodGet, server.RouteCurrencies, token, nil, &currencies)
	require.Contains(t, currencies, "GBP")
}

func TestFiles_ScopedToOwner(t *testing.T) {
	b, adminToken := newFullBackend(t)
	b.signup("Other", "other@example.com", users.RoleUser)
	otherToken := b.login("other@example.com", "Secret123")["token"].(string)

	resp, out := b.upload(adminToken, "photo.PNG", "image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode, out)
	require.Equal(t, "File uploaded successfully", out["message"])
	file := out["file"].(map[string]any)
	require.Equal(t, "image", file["file_type"])
	require.Equal(t, ".png", file["file_extension"])
	require.Equal(t, "photo.PNG", file["original_filename"])
	require.EqualValues(t, 9, file["file_size"])
	id := strconv.FormatInt(int64(file["id"].(float64)), 10)
	require.Equal(t, "/api/v1/files/"+id+"/download", file["url"])

	resp, _ = b.upload(adminToken, "notes.txt", "text/plain", []byte("hello"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, out = b.do(http.MethodGet, server.RouteFiles, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 2, out["total"])
	resp, out = b.do(http.MethodGet, "/api/v1/files/types/document", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 1, out["total"])
	resp, _ = b.do(http.MethodGet, "/api/v1/files/types/spreadsheet", adminToken, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, b.srv.URL+"/api/v1/files/"+id+"/download", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	dl, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(dl.Body)
	_ = dl.Body.Close()
	require.Equal(t, http.StatusOK, dl.StatusCode)
	require.Equal(t, "image/png", dl.Header.Get("Content-Type"))
	require.Equal(t, "png-bytes", string(body))

	resp, out = b.do(http.MethodGet, "/api/v1/files/"+id, otherToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "File not found", out["detail"])
	resp, out = b.do(http.MethodGet, server.RouteFiles, otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 0, out["total"])

	resp, out = b.do(http.MethodGet, server.RouteFilesTestAuth, otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "other@example.com", out["user_email"])
	require.Equal(t, "user", out["user_role"])

	resp, out = b.do(http.MethodDelete, "/api/v1/files/"+id, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "File deleted successfully", out["message"])
	resp, _ = b.do(http.MethodGet, "/api/v1/files/"+id, adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
