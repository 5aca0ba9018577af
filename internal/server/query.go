package server

import (
	"github.com/gin-gonic/gin"

	ledgerdomain "github.com/roamclearlabs/roamclear/internal/ledger/domain"
)

// @Summary      Read a single asset by key
// @Tags         query
// @Router       /v1/assets/{id} [get]
func (s *Server) ReadAsset(c *gin.Context) {
	record, err := s.querysvc.Read(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, record)
}

// @Summary      List every key/record pair in the world state
// @Tags         query
// @Router       /v1/query [get]
func (s *Server) QueryAll(c *gin.Context) {
	results, err := s.querysvc.QueryAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, results)
}

// @Summary      Run a selector query
// @Tags         query
// @Router       /v1/query [post]
func (s *Server) QueryBySelector(c *gin.Context) {
	var selector ledgerdomain.Selector
	if err := c.ShouldBindJSON(&selector); err != nil {
		AbortWithError(c, newValidationError("selector", err.Error()))
		return
	}
	results, err := s.querysvc.QueryBySelector(c.Request.Context(), selector)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, results)
}

// @Summary      List sim keys referencing a CSP as home or roaming operator
// @Tags         query
// @Router       /v1/csps/{name}/sims [get]
func (s *Server) FindAllSubscriberSimsForCSP(c *gin.Context) {
	sims, err := s.querysvc.SimsForCSP(c.Request.Context(), c.Param("name"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sims)
}

// @Summary      Full mutation history for a sim key, oldest first
// @Tags         query
// @Router       /v1/sims/{publicKey}/history [get]
func (s *Server) GetHistoryForSim(c *gin.Context) {
	history, err := s.querysvc.History(c.Request.Context(), c.Param("publicKey"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, history)
}
