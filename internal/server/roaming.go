package server

import (
	"github.com/gin-gonic/gin"
)

type moveRequest struct {
	NewLocation string `json:"newLocation" binding:"required"`
}

// @Summary      Move sim to a new location
// @Tags         roaming
// @Router       /v1/sims/{publicKey}/move [post]
func (s *Server) MoveSim(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("newLocation", "required"))
		return
	}
	sim, err := s.roamingsvc.Move(c.Request.Context(), c.Param("publicKey"), req.NewLocation)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sim)
}

// @Summary      Discover the local operator for the sim's location
// @Tags         roaming
// @Router       /v1/sims/{publicKey}/discovery [post]
func (s *Server) Discovery(c *gin.Context) {
	operator, err := s.roamingsvc.Discover(c.Request.Context(), c.Param("publicKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"localOperator": operator})
}

// @Summary      Authenticate the sim against duplicate msisdns
// @Tags         roaming
// @Router       /v1/sims/{publicKey}/authentication [post]
func (s *Server) Authentication(c *gin.Context) {
	verdict, err := s.roamingsvc.Authenticate(c.Request.Context(), c.Param("publicKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"isValid": verdict})
}

type updateRateRequest struct {
	LocalOperatorName string `json:"localOperatorName" binding:"required"`
}

// @Summary      Apply the discovered operator's rates
// @Tags         roaming
// @Router       /v1/sims/{publicKey}/rate [post]
func (s *Server) UpdateRate(c *gin.Context) {
	var req updateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("localOperatorName", "required"))
		return
	}
	sim, err := s.roamingsvc.UpdateRate(c.Request.Context(), c.Param("publicKey"), req.LocalOperatorName)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sim)
}
