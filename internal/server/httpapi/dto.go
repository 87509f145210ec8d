package httpapi

import (
	"fmt"

	"github.com/dmitrijs2005/swapdiary/internal/common"
	"github.com/dmitrijs2005/swapdiary/internal/diaryrpc"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type registerRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Password    string `json:"password" validate:"required,min=6"`
	DisplayName string `json:"displayName" validate:"max=64"`
	Email       string `json:"email" validate:"omitempty,email"`
	Role        string `json:"role" validate:"required,oneof=taki mitsuha Taki Mitsuha"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type linkPartnerRequest struct {
	PartnerID string `json:"partnerUid" validate:"required"`
}

type createEntryRequest struct {
	Title string          `json:"title" validate:"required"`
	Body  string          `json:"full" validate:"required"`
	Mood  string          `json:"mood" validate:"max=32"`
	Image *diaryrpc.Image `json:"image"`
}

type entriesQuery struct {
	CoupleID string `form:"coupleId"`
	Role     string `form:"role" validate:"omitempty,oneof=taki mitsuha Taki Mitsuha"`
}

// bindJSON decodes the body into v and runs the struct validations.
// Every failure wraps common.ErrValidation.
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}

func bindQuery(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}
