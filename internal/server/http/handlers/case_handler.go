package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/server/http/dto"
)

// CaseHandler serves the wizard and case views.
type CaseHandler struct {
	facade CaseFacade
}

// NewCaseHandler constructs CaseHandler.
func NewCaseHandler(facade CaseFacade) *CaseHandler {
	return &CaseHandler{facade: facade}
}

// Create handles POST /api/cases.
func (h *CaseHandler) Create(c *gin.Context) {
	var req dto.CaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	in, err := toCaseInput(req)
	if err != nil {
		respondError(c, err)
		return
	}

	created, err := h.facade.CreateCase(c.Request.Context(), OptionalUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCaseResponse(created))
}

// Get handles GET /api/cases/:id.
func (h *CaseHandler) Get(c *gin.Context) {
	found, err := h.facade.Case(c.Request.Context(), OptionalUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCaseResponse(found))
}

// List handles GET /api/user/cases.
func (h *CaseHandler) List(c *gin.Context) {
	cases, err := h.facade.UserCases(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(cases) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.CaseResponse, 0, len(cases))
	for i := range cases {
		response = append(response, toCaseResponse(&cases[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Payment handles POST /api/cases/:id/payment.
func (h *CaseHandler) Payment(c *gin.Context) {
	link, err := h.facade.PaymentLink(c.Request.Context(), OptionalUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentLinkResponse{RedirectURL: link.RedirectURL, OrderID: link.OrderID})
}

// Summary handles GET /api/cases/:id/summary.pdf.
func (h *CaseHandler) Summary(c *gin.Context) {
	found, pdf, err := h.facade.CaseSummary(c.Request.Context(), OptionalUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+found.CaseNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func toCaseInput(req dto.CaseRequest) (model.CaseInput, error) {
	from, err := time.Parse(time.DateOnly, req.IllnessFrom)
	if err != nil {
		return model.CaseInput{}, domainErrors.Invalid("illness_from", "must be a YYYY-MM-DD date")
	}
	to, err := time.Parse(time.DateOnly, req.IllnessTo)
	if err != nil {
		return model.CaseInput{}, domainErrors.Invalid("illness_to", "must be a YYYY-MM-DD date")
	}
	in := model.CaseInput{
		IllnessFrom: from,
		IllnessTo:   to,
		LeaveType:   model.LeaveType(req.LeaveType),
		Interview:   req.Interview,
		Symptoms:    req.Symptoms,
	}
	if req.Profile != nil {
		p, err := toProfile(*req.Profile)
		if err != nil {
			return model.CaseInput{}, err
		}
		in.Profile = &p
	}
	return in, nil
}

func toCaseResponse(c *model.Case) dto.CaseResponse {
	return dto.CaseResponse{
		ID:            c.ID,
		CaseNumber:    c.CaseNumber,
		Status:        string(c.Status),
		PaymentStatus: string(c.PaymentStatus),
		LeaveType:     string(c.LeaveType),
		IllnessFrom:   c.IllnessFrom.Format(time.DateOnly),
		IllnessTo:     c.IllnessTo.Format(time.DateOnly),
		Amount:        c.Amount,
		Currency:      c.Currency,
		VisitBooked:   c.VisitID != nil,
		SubmittedAt:   c.SubmittedAt,
		CreatedAt:     c.CreatedAt,
	}
}
