package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"kyc/internal/kyc/service"
	id "kyc/pkg/domain"
	dErrors "kyc/pkg/domain-errors"
	"kyc/pkg/platform/httputil"
)

func (h *Handler) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := decode[CreateCompanyRequest](h, w, r)
	if !ok {
		return
	}
	c, err := h.service.CreateCompany(ctx, service.CreateCompanyInput{
		Name:     req.Name,
		IDNumber: req.IDNumber,
		DIC:      req.DIC,
		Registry: req.Registry,
		Statute:  req.Statute,
		Address:  req.Address.input(),
	})
	if err != nil {
		h.writeError(ctx, w, "create company", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCompanyResponse(c))
}

func (h *Handler) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := pageParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cs, err := h.service.ListCompanies(ctx, page)
	if err != nil {
		h.writeError(ctx, w, "list companies", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponses(cs))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "q is required"))
		return
	}
	cs, err := h.service.Search(ctx, q)
	if err != nil {
		h.writeError(ctx, w, "search companies", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponses(cs))
}

func (h *Handler) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.GetCompany(ctx, companyID)
	if err != nil {
		h.writeError(ctx, w, "get company", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponse(c))
}

func (h *Handler) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[UpdateCompanyRequest](h, w, r)
	if !ok {
		return
	}
	c, err := h.service.UpdateCompany(ctx, companyID, req.update())
	if err != nil {
		h.writeError(ctx, w, "update company", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponse(c))
}

func (h *Handler) handleRequestAML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.RequestAML(ctx, companyID)
	if err != nil {
		h.writeError(ctx, w, "request aml", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponse(c))
}

func (h *Handler) handleLookupProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.service.LookupCompanyProfile(ctx, chi.URLParam(r, "idNumber"))
	if err != nil {
		h.writeError(ctx, w, "lookup company profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleEnrichCompany(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.EnrichCompany(ctx, companyID)
	if err != nil {
		h.writeError(ctx, w, "enrich company", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompanyResponse(c))
}

func (h *Handler) handleListCompanyAddresses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	as, err := h.service.ListAddressesByCompany(ctx, companyID)
	if err != nil {
		h.writeError(ctx, w, "list company addresses", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAddressResponses(as))
}

func (h *Handler) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addressID, err := id.ParseAddressID(chi.URLParam(r, "addressID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	a, err := h.service.GetAddress(ctx, addressID)
	if err != nil {
		h.writeError(ctx, w, "get address", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAddressResponse(a))
}
