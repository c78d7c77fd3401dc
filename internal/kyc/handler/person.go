package handler

import (
	"net/http"

	"kyc/internal/kyc/models"
	id "kyc/pkg/domain"
	"kyc/pkg/platform/httputil"
)

// handleCreatePerson creates a person, linked to a company when company_id
// is given.
func (h *Handler) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	req, ok := decode[CreatePersonRequest](h, w, r)
	if !ok {
		return
	}
	var companyID id.CompanyID
	if req.CompanyID != "" {
		companyID, _ = id.ParseCompanyID(req.CompanyID)
	}
	h.createPerson(w, r, companyID, req.input())
}

func (h *Handler) handleCreateCompanyPerson(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[CreatePersonRequest](h, w, r)
	if !ok {
		return
	}
	h.createPerson(w, r, companyID, req.input())
}

func (h *Handler) createPerson(w http.ResponseWriter, r *http.Request, companyID id.CompanyID, in models.PersonInput) {
	ctx := r.Context()
	p, err := h.service.CreatePerson(ctx, companyID, in)
	if err != nil {
		h.writeError(ctx, w, "create person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toPersonResponse(p))
}

func (h *Handler) handleListPersons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := pageParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ps, err := h.service.ListPersons(ctx, page)
	if err != nil {
		h.writeError(ctx, w, "list persons", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponses(ps))
}

func (h *Handler) handleListCompanyPersons(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	ps, err := h.service.ListPersonsByCompany(ctx, companyID)
	if err != nil {
		h.writeError(ctx, w, "list company persons", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponses(ps))
}

func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.GetPerson(ctx, personID)
	if err != nil {
		h.writeError(ctx, w, "get person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonDetailResponse(p))
}

func (h *Handler) handleUpdatePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[UpdatePersonRequest](h, w, r)
	if !ok {
		return
	}
	p, err := h.service.UpdatePerson(ctx, personID, req.update())
	if err != nil {
		h.writeError(ctx, w, "update person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(p))
}

func (h *Handler) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeletePerson(ctx, personID); err != nil {
		h.writeError(ctx, w, "delete person", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *Handler) handleListPersonAddresses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	as, err := h.service.ListAddressesByPerson(ctx, personID)
	if err != nil {
		h.writeError(ctx, w, "list person addresses", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAddressResponses(as))
}
