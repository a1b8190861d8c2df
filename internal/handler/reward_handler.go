package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/khedma/sunday-school-backend/internal/middleware"
	"github.com/khedma/sunday-school-backend/internal/model"
	"github.com/khedma/sunday-school-backend/internal/response"
	"github.com/khedma/sunday-school-backend/internal/service"
)

// RewardHandler handles the reward catalog and purchases.
type RewardHandler struct {
	rewardService   *service.RewardService
	purchaseService *service.PurchaseService
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewardService *service.RewardService, purchaseService *service.PurchaseService) *RewardHandler {
	return &RewardHandler{rewardService: rewardService, purchaseService: purchaseService}
}

// ListRewards godoc
// GET /api/v1/rewards?q=&active=
func (h *RewardHandler) ListRewards(c *gin.Context) {
	items, err := h.rewardService.List(c.Request.Context(), model.RewardFilter{Q: c.Query("q"), Active: queryBool(c, "active")})
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// CreateReward godoc
// POST /api/v1/rewards
func (h *RewardHandler) CreateReward(c *gin.Context) {
	var req model.RewardRequest
	if !bind(c, &req) {
		return
	}

	item, err := h.rewardService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"item": item})
}

// UpdateReward godoc
// PUT /api/v1/rewards/:id
// An omitted stock makes the item unlimited.
func (h *RewardHandler) UpdateReward(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req model.RewardRequest
	if !bind(c, &req) {
		return
	}

	item, err := h.rewardService.Update(c.Request.Context(), middleware.GetActor(c), id, req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"item": item})
}

// DisableReward godoc
// DELETE /api/v1/rewards/:id
func (h *RewardHandler) DisableReward(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.rewardService.Disable(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Purchase godoc
// POST /api/v1/purchases
// Spends a student's points on a reward item.
func (h *RewardHandler) Purchase(c *gin.Context) {
	var req model.PurchaseRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.purchaseService.Purchase(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res)
}
