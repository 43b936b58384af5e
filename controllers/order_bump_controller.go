package controller

import (
	"funnelapi/auth"
	"funnelapi/models"
	"funnelapi/queries"
	"funnelapi/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type OrderBumpController struct {
	Steps  queries.FunnelStepStore
	Logger *logrus.Entry
}

func NewOrderBumpController(steps queries.FunnelStepStore, logger *logrus.Entry) *OrderBumpController {
	return &OrderBumpController{
		Steps:  steps,
		Logger: logger,
	}
}

// Priority is validated but not stored: an appended bump always goes last.
type orderBumpRequest struct {
	FunnelStepID string                   `json:"funnelStepId" validate:"required,uuid"`
	Name         string                   `json:"name" validate:"required,max=200"`
	Priority     int                      `json:"priority" validate:"required,min=1,max=20"`
	Products     []models.ProductSettings `json:"products"`
	Design       map[string]interface{}   `json:"design"`
}

// AppendOrderBump adds an order bump to the end of a step's settings.
func (oc *OrderBumpController) AppendOrderBump(c *fiber.Ctx) error {
	var req orderBumpRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err)
	}

	_, actor, err := authorizedStep(c, oc.Steps, req.FunnelStepID, auth.CanUpdateFunnelStep)
	if err != nil {
		return utils.HandleError(c, err)
	}

	products := make([]models.ProductSettings, 0, len(req.Products))
	for _, p := range req.Products {
		if p == nil {
			p = models.ProductSettings{}
		}
		p.SetID(utils.NewID())
		products = append(products, p)
	}

	bump := models.NewOrderBump(utils.NewID(), req.Name, products, req.Design)
	step, err := oc.Steps.AppendOrderBump(c.UserContext(), req.FunnelStepID, bump)
	if err != nil {
		return utils.HandleError(c, err)
	}

	oc.Logger.WithFields(logrus.Fields{
		"funnel_step_id": step.ID,
		"user_id":        actor.ID,
		"version":        step.Version,
	}).Info("Order bump appended")

	return respondStep(c, step)
}
