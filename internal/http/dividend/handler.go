package dividend

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/coopledger/internal/dividend"
	"github.com/MrJamesThe3rd/coopledger/internal/http/api"
	"github.com/MrJamesThe3rd/coopledger/internal/validation"
)

type Handler struct {
	svc *dividend.Service
}

func NewHandler(svc *dividend.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/preview", h.preview)
}

type holderResponse struct {
	MemberID int64           `json:"member_id"`
	MemberNo string          `json:"member_no"`
	FullName string          `json:"full_name"`
	Share    decimal.Decimal `json:"share_balance"`
}

type lineResponse struct {
	holderResponse
	Amount decimal.Decimal `json:"amount"`
}

type planResponse struct {
	Rate        decimal.Decimal  `json:"rate"`
	Date        string           `json:"date"`
	Year        string           `json:"year"`
	Description string           `json:"description"`
	ShareBase   decimal.Decimal  `json:"share_base"`
	Total       decimal.Decimal  `json:"total"`
	Lines       []lineResponse   `json:"lines"`
	AlreadyPaid []holderResponse `json:"already_paid"`
}

func toHolder(h dividend.Holder) holderResponse {
	return holderResponse{MemberID: h.MemberID, MemberNo: h.MemberNo, FullName: h.FullName, Share: h.Share}
}

func toPlan(p *dividend.Plan) planResponse {
	resp := planResponse{
		Rate:        p.Rate,
		Date:        p.Date.Format(validation.DateLayout),
		Year:        p.Year,
		Description: p.Description,
		ShareBase:   p.ShareBase,
		Total:       p.Total,
		Lines:       make([]lineResponse, len(p.Lines)),
		AlreadyPaid: make([]holderResponse, len(p.AlreadyPaid)),
	}

	for i, l := range p.Lines {
		resp.Lines[i] = lineResponse{holderResponse: toHolder(l.Holder), Amount: l.Amount}
	}

	for i, h := range p.AlreadyPaid {
		resp.AlreadyPaid[i] = toHolder(h)
	}

	return resp
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	raw, err := api.ReadValues(w, r)
	if err != nil {
		api.BadRequest(w, err)
		return
	}

	plan, err := h.svc.Preview(r.Context(), raw)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, toPlan(plan))
}
