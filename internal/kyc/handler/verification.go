package handler

import (
	"net/http"

	"kyc/internal/kyc/service"
	"kyc/pkg/platform/httputil"
)

func (h *Handler) handleVerificationEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[VerificationEmailRequest](h, w, r)
	if !ok {
		return
	}
	if err := h.service.RequestVerificationEmail(ctx, personID, req.Language); err != nil {
		h.writeError(ctx, w, "request verification email", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) handleBulkVerificationEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	companyID, err := companyIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[BulkVerificationEmailRequest](h, w, r)
	if !ok {
		return
	}
	n, err := h.service.RequestVerificationEmailBulk(ctx, companyID, req.personIDs(), req.Language)
	if err != nil {
		h.writeError(ctx, w, "request verification emails", err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, BulkVerificationResponse{Requested: n})
}

func (h *Handler) handleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	companies, err := h.service.CheckEligibility(ctx, personID)
	if err != nil {
		h.writeError(ctx, w, "check eligibility", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, companies)
}

func (h *Handler) handleSubmitVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[SubmitVerificationRequest](h, w, r)
	if !ok {
		return
	}
	p, err := h.service.SubmitVerification(ctx, personID, service.SubmitVerificationInput{
		Profile:  req.profile(),
		Language: req.Language,
	})
	if err != nil {
		h.writeError(ctx, w, "submit verification", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPersonResponse(p))
}

func (h *Handler) handleFaceMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	personID, err := personIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decode[FaceMatchRequest](h, w, r)
	if !ok {
		return
	}
	verified, err := h.service.VerifyFaceMatch(ctx, personID, req.ReferencePhoto, req.SubmittedPhoto)
	if err != nil {
		h.writeError(ctx, w, "face match", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FaceMatchResponse{Verified: verified})
}
