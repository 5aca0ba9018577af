package server

import (
	"github.com/gin-gonic/gin"
)

// @Summary      Verify the sim and report overage status
// @Tags         billing
// @Router       /v1/sims/{publicKey}/verify [post]
func (s *Server) VerifyUser(c *gin.Context) {
	result, err := s.billingsvc.VerifyUser(c.Request.Context(), c.Param("publicKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{
		"nearingOverage": result.NearingOverage,
		"allowOverage":   result.AllowOverage,
	})
}

type overageConsentRequest struct {
	AllowOverage *bool `json:"allowOverage" binding:"required"`
}

// @Summary      Record the one-time overage consent answer
// @Tags         billing
// @Router       /v1/sims/{publicKey}/overage-consent [post]
func (s *Server) SetOverageFlag(c *gin.Context) {
	var req overageConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.AllowOverage == nil {
		AbortWithError(c, newValidationError("allowOverage", "required"))
		return
	}
	sim, err := s.billingsvc.SetOverageConsent(c.Request.Context(), c.Param("publicKey"), *req.AllowOverage)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{
		"overageFlag":  sim.OverageFlag,
		"allowOverage": sim.AllowOverage,
	})
}

// @Summary      Open a call
// @Tags         billing
// @Router       /v1/sims/{publicKey}/call-out [post]
func (s *Server) CallOut(c *gin.Context) {
	start, err := s.billingsvc.CallOut(c.Request.Context(), c.Param("publicKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"startTime": start})
}

// @Summary      End the open call
// @Tags         billing
// @Router       /v1/sims/{publicKey}/call-end [post]
func (s *Server) CallEnd(c *gin.Context) {
	result, err := s.billingsvc.CallEnd(c.Request.Context(), c.Param("publicKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{
		"startTime":       result.CallBegin,
		"endTime":         result.CallEnd,
		"callDuration":    result.DurationSeconds,
		"callDetailIndex": result.CallDetailIndex,
	})
}

type callPayRequest struct {
	CallDetailIndex *int `json:"callDetailIndex" binding:"required"`
}

// @Summary      Price a closed call
// @Tags         billing
// @Router       /v1/sims/{publicKey}/call-pay [post]
func (s *Server) CallPay(c *gin.Context) {
	var req callPayRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CallDetailIndex == nil {
		AbortWithError(c, newValidationError("callDetailIndex", "required"))
		return
	}
	result, err := s.billingsvc.CallPay(c.Request.Context(), c.Param("publicKey"), *req.CallDetailIndex)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{
		"callDuration": result.DurationSeconds,
		"rateUsed":     result.RateUsed,
		"callCharges":  result.CallCharges,
	})
}
