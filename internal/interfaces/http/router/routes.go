package router

import (
	"net/http"

	"github.com/Esyonel/vural-enerji-sub001/internal/interfaces/http/handler"
)

// Handlers bundles the handlers named by API
type Handlers struct {
	Packages *handler.SolarPackageHandler
	Products *handler.ProductHandler
	Imports  *handler.ProductImportHandler
	Offers   *handler.OfferHandler
	Quotes   *handler.QuoteHandler
	Auth     *handler.AuthHandler
	System   *handler.SystemHandler
}

// API is the route table. Catalog reads and quote submission are public;
// every write and every quote read is Admin.
func API(h Handlers) []Group {
	return []Group{
		{Prefix: "/solar-packages", Routes: []Route{
			{http.MethodGet, "", Public, h.Packages.List},
			{http.MethodGet, "/recommend/:billAmount", Public, h.Packages.Recommend},
			{http.MethodGet, "/:id", Public, h.Packages.GetByID},
			{http.MethodGet, "/:id/offer", Public, h.Offers.Download},
			{http.MethodPost, "", Admin, h.Packages.Create},
			{http.MethodPut, "/:id", Admin, h.Packages.Update},
			{http.MethodPut, "/:id/line-items", Admin, h.Packages.SetLineItems},
			{http.MethodDelete, "/:id", Admin, h.Packages.Delete},
		}},
		{Prefix: "/products", Routes: []Route{
			{http.MethodGet, "", Public, h.Products.List},
			{http.MethodGet, "/:id", Public, h.Products.GetByID},
			{http.MethodPost, "", Admin, h.Products.Create},
			{http.MethodPost, "/import", Admin, h.Imports.Import},
			{http.MethodPut, "/:id", Admin, h.Products.Update},
			{http.MethodDelete, "/:id", Admin, h.Products.Delete},
			{http.MethodPost, "/:id/activate", Admin, h.Products.Activate},
			{http.MethodPost, "/:id/deactivate", Admin, h.Products.Deactivate},
			{http.MethodPost, "/:id/image/upload-url", Admin, h.Products.RequestImageUpload},
			{http.MethodPost, "/:id/image/confirm", Admin, h.Products.ConfirmImageUpload},
		}},
		{Prefix: "/quote-requests", Routes: []Route{
			{http.MethodPost, "", Public, h.Quotes.Submit},
			{http.MethodGet, "", Admin, h.Quotes.List},
			{http.MethodGet, "/:id", Admin, h.Quotes.GetByID},
			{http.MethodPut, "/:id/status", Admin, h.Quotes.UpdateStatus},
		}},
		{Prefix: "/auth", Routes: []Route{
			{http.MethodPost, "/login", Public, h.Auth.Login},
			{http.MethodPost, "/logout", Admin, h.Auth.Logout},
			{http.MethodGet, "/me", Admin, h.Auth.Me},
		}},
		{Prefix: "/system", Routes: []Route{
			{http.MethodGet, "/info", Public, h.System.GetSystemInfo},
			{http.MethodGet, "/ping", Public, h.System.Ping},
		}},
	}
}
