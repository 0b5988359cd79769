package server

// Route path constants
// All backend routes are defined here to keep client and server in step
const (
	// Users API
	RouteUsers             = "/api/v1/users/"
	RouteUsersAuthenticate = "/api/v1/users/authenticate"
	RouteUser              = "/api/v1/users/{id}"
	RouteUserRole          = "/api/v1/users/{id}/role"
	RouteUsersByRole       = "/api/v1/users/role/{role}"

	// Customers API
	RouteCustomers           = "/api/v1/customers/"
	RouteCustomersSearch     = "/api/v1/customers/search"
	RouteCustomer            = "/api/v1/customers/{customer_id}"
	RouteCustomerHard        = "/api/v1/customers/{customer_id}/hard"
	RouteCustomerByUsername  = "/api/v1/customers/username/{username}"
	RouteCustomerByEmail     = "/api/v1/customers/email/{email}"
	RouteCustomerVerifyEmail = "/api/v1/customers/{customer_id}/verify-email"
	RouteCustomerVerifyPhone = "/api/v1/customers/{customer_id}/verify-phone"
	RouteCustomerLastLogin   = "/api/v1/customers/{customer_id}/last-login"

	// Orders API
	RouteOrders           = "/api/v1/orders/"
	RouteOrder            = "/api/v1/orders/{order_id}"
	RouteOrderStatus      = "/api/v1/orders/{order_id}/status"
	RouteOrdersByCustomer = "/api/v1/orders/customer/{customer_id}"

	// Products API
	RouteProducts           = "/api/v1/products/"
	RouteProductsSearch     = "/api/v1/products/search"
	RouteProductsFeatured   = "/api/v1/products/featured/"
	RouteProductsByCategory = "/api/v1/products/category/{category}"
	RouteProductCategories  = "/api/v1/products/categories/available"
	RouteProduct            = "/api/v1/products/{product_id}"
	RouteProductBySKU       = "/api/v1/products/sku/{sku}"
	RouteProductStatus      = "/api/v1/products/{product_id}/status"
	RouteProductFeature     = "/api/v1/products/{product_id}/feature"

	// Payments API
	RoutePayments           = "/api/v1/payments/"
	RoutePayment            = "/api/v1/payments/{payment_id}"
	RoutePaymentStatus      = "/api/v1/payments/{payment_id}/status"
	RoutePaymentProcess     = "/api/v1/payments/{payment_id}/process"
	RoutePaymentRefunds     = "/api/v1/payments/{payment_id}/refunds"
	RoutePaymentsByOrder    = "/api/v1/payments/order/{order_id}"
	RoutePaymentsByCustomer = "/api/v1/payments/customer/{customer_id}"
	RouteRefunds            = "/api/v1/payments/refunds"
	RouteRefund             = "/api/v1/payments/refunds/{refund_id}"
	RouteCurrencies         = "/api/v1/payments/currencies/available"

	// Files API
	RouteFiles         = "/api/v1/files/"
	RouteFilesUpload   = "/api/v1/files/upload"
	RouteFilesTestAuth = "/api/v1/files/test-auth"
	RouteFilesByType   = "/api/v1/files/types/{file_type}"
	RouteFile          = "/api/v1/files/{file_id}"
	RouteFileDownload  = "/api/v1/files/{file_id}/download"

	// Auth
	RouteAuthRefresh = "/auth/refresh"

	// Operations
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"
)
