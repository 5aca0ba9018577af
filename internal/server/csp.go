package server

import (
	"github.com/gin-gonic/gin"
)

type cspRequest struct {
	Name        string `json:"name"`
	Region      string `json:"region" binding:"required"`
	OverageRate string `json:"overageRate" binding:"required"`
	RoamingRate string `json:"roamingRate" binding:"required"`
}

// @Summary      Create CSP
// @Tags         csp
// @Accept       json
// @Produce      json
// @Param        request body cspRequest true "CSP"
// @Router       /v1/csps [post]
func (s *Server) CreateCSP(c *gin.Context) {
	var req cspRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", err.Error()))
		return
	}
	if req.Name == "" {
		AbortWithError(c, newValidationError("name", "required"))
		return
	}
	csp, err := s.cspsvc.Create(c.Request.Context(), req.Name, req.Region, req.OverageRate, req.RoamingRate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, csp)
}

// @Summary      Update CSP
// @Tags         csp
// @Router       /v1/csps/{name} [put]
func (s *Server) UpdateCSP(c *gin.Context) {
	var req cspRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", err.Error()))
		return
	}
	name := c.Param("name")
	csp, err := s.cspsvc.Update(c.Request.Context(), name, req.Region, req.OverageRate, req.RoamingRate)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, csp)
}

// @Summary      Delete CSP
// @Tags         csp
// @Router       /v1/csps/{name} [delete]
func (s *Server) DeleteCSP(c *gin.Context) {
	if err := s.cspsvc.Delete(c.Request.Context(), c.Param("name")); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": c.Param("name")})
}
