package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
	"github.com/ezla-online/portal/internal/server/http/dto"
	"github.com/ezla-online/portal/internal/server/http/middleware"
)

// AccountHandler serves the account profile and erasure endpoints.
type AccountHandler struct {
	facade AccountFacade
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(facade AccountFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// Profile handles GET /api/user/profile.
func (h *AccountHandler) Profile(c *gin.Context) {
	p, err := h.facade.Profile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

// SaveProfile handles PUT /api/user/profile.
func (h *AccountHandler) SaveProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := toProfile(req)
	if err != nil {
		respondError(c, err)
		return
	}

	saved, err := h.facade.SaveProfile(c.Request.Context(), CurrentUserID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(saved))
}

// Delete handles DELETE /api/user.
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteAccount(c.Request.Context(), CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	middleware.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}

func toProfile(req dto.ProfileRequest) (model.Profile, error) {
	dob, err := time.Parse(time.DateOnly, req.DateOfBirth)
	if err != nil {
		return model.Profile{}, domainErrors.Invalid("date_of_birth", "must be a YYYY-MM-DD date")
	}
	return model.Profile{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PESEL:       req.PESEL,
		DateOfBirth: dob,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		HouseNumber: req.HouseNumber,
		FlatNumber:  req.FlatNumber,
		PostalCode:  req.PostalCode,
		City:        req.City,
	}, nil
}

func toProfileResponse(p *model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PESEL:       p.PESEL,
		DateOfBirth: p.DateOfBirth.Format(time.DateOnly),
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		Address:     p.Address,
		HouseNumber: p.HouseNumber,
		FlatNumber:  p.FlatNumber,
		PostalCode:  p.PostalCode,
		City:        p.City,
		UpdatedAt:   p.UpdatedAt,
	}
}
