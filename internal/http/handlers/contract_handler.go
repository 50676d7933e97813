package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/creator-marketplace/backend/internal/http/dto"
	"github.com/creator-marketplace/backend/internal/middleware"
	"github.com/creator-marketplace/backend/internal/models"
	"github.com/creator-marketplace/backend/internal/services"
)

type ContractHandler struct {
	contractService *services.ContractService
	log             *zap.Logger
}

func NewContractHandler(contractService *services.ContractService, log *zap.Logger) *ContractHandler {
	return &ContractHandler{contractService: contractService, log: log}
}

func (h *ContractHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}
	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid application_id"})
	}

	milestones := make([]models.Milestone, 0, len(req.Milestones))
	for _, m := range req.Milestones {
		milestones = append(milestones, models.Milestone{
			Title:       m.Title,
			Amount:      m.Amount,
			TriggerType: m.TriggerType,
			DueDate:     m.DueDate,
		})
	}

	contract, created, err := h.contractService.Create(c.Context(), middleware.GetUserID(c), services.CreateContractInput{
		ApplicationID: applicationID,
		Terms:         req.Terms,
		TotalAmount:   req.TotalAmount,
		Currency:      req.Currency,
		Milestones:    milestones,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: dto.ContractResponse{
		Contract:   contract,
		Milestones: created,
	}})
}

func (h *ContractHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid contract id"})
	}
	contract, err := h.contractService.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	milestones, err := h.contractService.Milestones(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ContractResponse{
		Contract:   contract,
		Milestones: milestones,
	}})
}

func (h *ContractHandler) List(c *fiber.Ctx) error {
	filter := models.ContractFilter{Limit: 20}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := c.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}
	if v := c.Query("status"); v != "" {
		filter.Status = &v
	}

	actorID := middleware.GetUserID(c)
	switch middleware.GetUserRole(c) {
	case models.RoleCreator:
		filter.CreatorUserID = &actorID
	default:
		filter.BrandUserID = &actorID
	}

	contracts, err := h.contractService.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contracts})
}

func (h *ContractHandler) Send(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.Send)
}

func (h *ContractHandler) Sign(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.Sign)
}

func (h *ContractHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, h.contractService.Complete)
}

func (h *ContractHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid contract id"})
	}
	var req dto.CancelContractRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
	}

	contract, err := h.contractService.Cancel(c.Context(), id, middleware.GetUserID(c), req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contract})
}

func (h *ContractHandler) Milestones(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid contract id"})
	}
	milestones, err := h.contractService.Milestones(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: milestones})
}

func (h *ContractHandler) MarkMilestoneReady(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid milestone id"})
	}
	m, err := h.contractService.MarkMilestoneReady(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: m})
}

func (h *ContractHandler) Events(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid contract id"})
	}
	logs, err := h.contractService.Events(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: logs})
}

func (h *ContractHandler) transition(c *fiber.Ctx, op func(ctx context.Context, id, actorID uuid.UUID) (*models.Contract, error)) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid contract id"})
	}
	contract, err := op(c.Context(), id, middleware.GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: contract})
}
