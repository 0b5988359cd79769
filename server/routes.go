package server

import (
	"net/http"

	"github.com/jrsteele09/go-session-client/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	authenticated := s.APIMiddleware(s.RequireAuth())
	admin := s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))

	// Public
	s.RegisterRoute(http.MethodPost, RouteUsersAuthenticate, ChainMiddleware(s.AuthenticateHandler(), s.APIMiddleware()...))
	s.RegisterRoute(http.MethodPost, RouteUsers, ChainMiddleware(s.CreateUserHandler(), s.APIMiddleware()...))
	s.RegisterRoute(http.MethodPost, RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))

	// Users API
	s.RegisterRoute(http.MethodGet, RouteUser, ChainMiddleware(s.GetUserHandler(), authenticated...))
	s.RegisterRoute(http.MethodGet, RouteUsers, ChainMiddleware(s.ListUsersHandler(), admin...))
	s.RegisterRoute(http.MethodGet, RouteUsersByRole, ChainMiddleware(s.ListUsersByRoleHandler(), admin...))
	s.RegisterRoute(http.MethodPatch, RouteUserRole, ChainMiddleware(s.UpdateUserRoleHandler(), admin...))
	s.RegisterRoute(http.MethodDelete, RouteUser, ChainMiddleware(s.DeleteUserHandler(), admin...))

	s.initResourceRoutes(authenticated)

	s.RegisterRoute(http.MethodGet, RouteMetrics, promhttp.Handler().ServeHTTP)
	s.RegisterRoute(http.MethodGet, RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// initResourceRoutes mounts each resource API whose repo is configured
func (s *Server) initResourceRoutes(authenticated []func(http.HandlerFunc) http.HandlerFunc) {
	route := func(method, pattern string, h http.HandlerFunc) {
		s.RegisterRoute(method, pattern, ChainMiddleware(h, authenticated...))
	}

	if s.repos.Customers != nil {
		route(http.MethodPost, RouteCustomers, s.CreateCustomerHandler())
		route(http.MethodGet, RouteCustomers, s.ListCustomersHandler())
		route(http.MethodPost, RouteCustomersSearch, s.SearchCustomersHandler())
		route(http.MethodGet, RouteCustomer, s.GetCustomerHandler())
		route(http.MethodPut, RouteCustomer, s.UpdateCustomerHandler())
		route(http.MethodDelete, RouteCustomer, s.DeleteCustomerHandler())
		route(http.MethodDelete, RouteCustomerHard, s.HardDeleteCustomerHandler())
		route(http.MethodGet, RouteCustomerByUsername, s.GetCustomerByUsernameHandler())
		route(http.MethodGet, RouteCustomerByEmail, s.GetCustomerByEmailHandler())
		route(http.MethodPatch, RouteCustomerVerifyEmail, s.VerifyCustomerEmailHandler())
		route(http.MethodPatch, RouteCustomerVerifyPhone, s.VerifyCustomerPhoneHandler())
		route(http.MethodPatch, RouteCustomerLastLogin, s.CustomerLastLoginHandler())
	}

	if s.repos.Orders != nil {
		route(http.MethodPost, RouteOrders, s.CreateOrderHandler())
		route(http.MethodGet, RouteOrders, s.ListOrdersHandler())
		route(http.MethodGet, RouteOrder, s.GetOrderHandler())
		route(http.MethodPut, RouteOrder, s.UpdateOrderHandler())
		route(http.MethodDelete, RouteOrder, s.DeleteOrderHandler())
		route(http.MethodPatch, RouteOrderStatus, s.UpdateOrderStatusHandler())
		route(http.MethodGet, RouteOrdersByCustomer, s.ListCustomerOrdersHandler())
	}

	if s.repos.Products != nil {
		route(http.MethodPost, RouteProducts, s.CreateProductHandler())
		route(http.MethodGet, RouteProducts, s.ListProductsHandler())
		route(http.MethodPost, RouteProductsSearch, s.SearchProductsHandler())
		route(http.MethodGet, RouteProductsFeatured, s.FeaturedProductsHandler())
		route(http.MethodGet, RouteProductsByCategory, s.ProductsByCategoryHandler())
		route(http.MethodGet, RouteProductCategories, s.ProductCategoriesHandler())
		route(http.MethodGet, RouteProduct, s.GetProductHandler())
		route(http.MethodPut, RouteProduct, s.UpdateProductHandler())
		route(http.MethodDelete, RouteProduct, s.DeleteProductHandler())
		route(http.MethodGet, RouteProductBySKU, s.GetProductBySKUHandler())
		route(http.MethodPatch, RouteProductStatus, s.UpdateProductStatusHandler())
		route(http.MethodPatch, RouteProductFeature, s.FeatureProductHandler())
	}

	if s.repos.Payments != nil {
		route(http.MethodPost, RoutePayments, s.CreatePaymentHandler())
		route(http.MethodGet, RoutePayments, s.ListPaymentsHandler())
		route(http.MethodGet, RoutePayment, s.GetPaymentHandler())
		route(http.MethodPut, RoutePayment, s.UpdatePaymentHandler())
		route(http.MethodPatch, RoutePaymentStatus, s.UpdatePaymentStatusHandler())
		route(http.MethodPost, RoutePaymentProcess, s.ProcessPaymentHandler())
		route(http.MethodGet, RoutePaymentRefunds, s.ListPaymentRefundsHandler())
		route(http.MethodGet, RoutePaymentsByOrder, s.ListOrderPaymentsHandler())
		route(http.MethodGet, RoutePaymentsByCustomer, s.ListCustomerPaymentsHandler())
		route(http.MethodPost, RouteRefunds, s.CreateRefundHandler())
		route(http.MethodGet, RouteRefund, s.GetRefundHandler())
		route(http.MethodGet, RouteCurrencies, s.CurrenciesHandler())
	}

	if s.repos.Files != nil {
		route(http.MethodPost, RouteFilesUpload, s.UploadFileHandler())
		route(http.MethodGet, RouteFiles, s.ListFilesHandler())
		route(http.MethodGet, RouteFilesTestAuth, s.FileAuthHandler())
		route(http.MethodGet, RouteFilesByType, s.ListFilesByTypeHandler())
		route(http.MethodGet, RouteFile, s.GetFileHandler())
		route(http.MethodDelete, RouteFile, s.DeleteFileHandler())
		route(http.MethodGet, RouteFileDownload, s.DownloadFileHandler())
	}
}
