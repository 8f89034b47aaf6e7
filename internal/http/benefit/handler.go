package benefit

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/benefit"
	"github.com/MrJamesThe3rd/coopledger/internal/http/api"
)

type Handler struct {
	svc *benefit.Service
}

func NewHandler(svc *benefit.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.listAvailable)
	r.Post("/", h.grant)
	r.Post("/{id}/claim", h.claim)
}

// MemberRoutes mounts a member's benefits under the members route.
func (h *Handler) MemberRoutes(r chi.Router) {
	r.Get("/{id}/benefits", h.listByMember)
}

type benefitResponse struct {
	ID          uuid.UUID       `json:"id"`
	MemberID    int64           `json:"member_id"`
	BenefitType string          `json:"benefit_type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      benefit.Status  `json:"status"`
	ClaimedAt   *time.Time      `json:"claimed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toResponse(b *benefit.Benefit) benefitResponse {
	return benefitResponse{
		ID:          b.ID,
		MemberID:    b.MemberID,
		BenefitType: b.BenefitType,
		Amount:      b.Amount,
		Status:      b.Status,
		ClaimedAt:   b.ClaimedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toResponseList(benefits []*benefit.Benefit) []benefitResponse {
	resp := make([]benefitResponse, len(benefits))
	for i, b := range benefits {
		resp[i] = toResponse(b)
	}

	return resp
}

func (h *Handler) grant(w http.ResponseWriter, r *http.Request) {
	raw, err := api.ReadValues(w, r)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	b, err := h.svc.Grant(r.Context(), raw)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) claim(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Claim(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) listAvailable(w http.ResponseWriter, r *http.Request) {
	benefits, err := h.svc.ListAvailable(r.Context())
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponseList(benefits))
}

func (h *Handler) listByMember(w http.ResponseWriter, r *http.Request) {
	id, err := api.IDParam(r, "id")
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	benefits, err := h.svc.ListByMember(r.Context(), id)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponseList(benefits))
}
