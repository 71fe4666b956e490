// Package http provides http transport for offers
package http

import (
	stdhttp "net/http"

	"sdexindex/internal/modkit/httpkit"
	"sdexindex/internal/services/api/offers/domain"
	svc "sdexindex/internal/services/api/offers/service"
)

// Register mounts offers endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// current book, keyset paginated on id
	httpkit.GetQuery[domain.ListInput](r, "/", h.list)

	// single offer
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /offers Offers offersList
// @Summary List current offers
// @Tags Offers
// @Produce json
// @Param selling query string false "selling asset, native or CODE:ISSUER"
// @Param buying query string false "buying asset, native or CODE:ISSUER"
// @Param seller query string false "seller account"
// @Param limit query int false "page size 1..200"
// @Param after query string false "offer id cursor from page.next"
// @Success 200 {array} domain.Offer "ok"
// @Router /offers [get]
func (h *handlers) list(r *stdhttp.Request, in domain.ListInput) (any, error) {
	res, err := h.svc.List(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.List(res.Items, httpkit.Page{Limit: res.Limit, Count: len(res.Items), Next: res.Next}), nil
}

// swagger:route GET /offers/{id} Offers offersGet
// @Summary Get one offer
// @Tags Offers
// @Produce json
// @Param id path string true "offer id"
// @Success 200 {object} domain.Offer "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /offers/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), httpkit.Param(r, "id"))
}
