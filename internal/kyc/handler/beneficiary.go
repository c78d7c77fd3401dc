package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	id "kyc/pkg/domain"
	"kyc/pkg/platform/httputil"
)

func (h *Handler) handleCreateBeneficiary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[CreateBeneficiaryRequest](h, w, r)
	if !ok {
		return
	}
	b, err := h.service.CreateBeneficiary(ctx, companyID, req.Name, req.Surname)
	if err != nil {
		h.writeError(ctx, w, "create beneficiary", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toBeneficiaryResponse(b))
}

func (h *Handler) handleListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	bs, err := h.service.ListBeneficiaries(ctx, companyID)
	if err != nil {
		h.writeError(ctx, w, "list beneficiaries", err)
		return
	}
	out := make([]BeneficiaryResponse, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBeneficiaryResponse(b))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetBeneficiary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	beneficiaryID, err := id.ParseBeneficiaryID(chi.URLParam(r, "beneficiaryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.service.GetBeneficiary(ctx, beneficiaryID)
	if err != nil {
		h.writeError(ctx, w, "get beneficiary", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBeneficiaryResponse(b))
}

func (h *Handler) handleDeleteBeneficiary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	beneficiaryID, err := id.ParseBeneficiaryID(chi.URLParam(r, "beneficiaryID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteBeneficiary(ctx, beneficiaryID); err != nil {
		h.writeError(ctx, w, "delete beneficiary", err)
		return
	}
	httputil.WriteNoContent(w)
}
