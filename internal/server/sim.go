package server

import (
	"github.com/gin-gonic/gin"

	simdomain "github.com/roamclearlabs/roamclear/internal/sim/domain"
)

type simRequest struct {
	PublicKey          string                  `json:"publicKey"`
	MSISDN             string                  `json:"msisdn" binding:"required"`
	Address            string                  `json:"address"`
	HomeOperatorName   string                  `json:"homeOperatorName" binding:"required"`
	RoamingPartnerName string                  `json:"roamingPartnerName"`
	IsRoaming          bool                    `json:"isRoaming"`
	Location           string                  `json:"location"`
	Latitude           string                  `json:"latitude"`
	Longitude          string                  `json:"longitude"`
	RoamingRate        string                  `json:"roamingRate"`
	OverageRate        string                  `json:"overageRate"`
	CallDetails        []simdomain.CallDetail  `json:"callDetails"`
	IsValid            simdomain.Validity      `json:"isValid"`
	OverageThreshold   string                  `json:"overageThreshold"`
	AllowOverage       simdomain.TriState      `json:"allowOverage"`
	OverageFlag        bool                    `json:"overageFlag"`
}

func (r simRequest) toInput() simdomain.CreateInput {
	return simdomain.CreateInput{
		PublicKey:          r.PublicKey,
		MSISDN:             r.MSISDN,
		Address:            r.Address,
		HomeOperatorName:   r.HomeOperatorName,
		RoamingPartnerName: r.RoamingPartnerName,
		IsRoaming:          r.IsRoaming,
		Location:           r.Location,
		Latitude:           r.Latitude,
		Longitude:          r.Longitude,
		RoamingRate:        r.RoamingRate,
		OverageRate:        r.OverageRate,
		CallDetails:        r.CallDetails,
		IsValid:            r.IsValid,
		OverageThreshold:   r.OverageThreshold,
		AllowOverage:       r.AllowOverage,
		OverageFlag:        r.OverageFlag,
	}
}

// @Summary      Create SubscriberSim
// @Tags         sim
// @Router       /v1/sims [post]
func (s *Server) CreateSubscriberSim(c *gin.Context) {
	var req simRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", err.Error()))
		return
	}
	if req.PublicKey == "" {
		AbortWithError(c, newValidationError("publicKey", "required"))
		return
	}
	sim, err := s.simsvc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sim)
}

// @Summary      Update SubscriberSim
// @Tags         sim
// @Router       /v1/sims/{publicKey} [put]
func (s *Server) UpdateSubscriberSim(c *gin.Context) {
	var req simRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("body", err.Error()))
		return
	}
	req.PublicKey = c.Param("publicKey")
	sim, err := s.simsvc.Update(c.Request.Context(), req.toInput())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, sim)
}

// @Summary      Delete SubscriberSim
// @Tags         sim
// @Router       /v1/sims/{publicKey} [delete]
func (s *Server) DeleteSubscriberSim(c *gin.Context) {
	key := c.Param("publicKey")
	if err := s.simsvc.Delete(c.Request.Context(), key); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"deleted": key})
}
