// controllers/auth_controller.go
package controllers

import (
	"net/http"

	"hotelops-backend/middleware"
	"hotelops-backend/services"
	"hotelops-backend/utils"

	"github.com/gin-gonic/gin"
)

type LoginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	StaffSvc *services.StaffService
}

func NewAuthController(svc *services.StaffService) *AuthController {
	return &AuthController{StaffSvc: svc}
}

// Login handles POST /api/auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var payload LoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	staff, err := ac.StaffSvc.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if _, ok := services.AsOpError(err); ok {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondServiceError(c, err)
		return
	}

	token, err := middleware.GenerateToken(staff)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "staff": staff})
}
