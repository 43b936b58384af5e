package controller

import (
	"funnelapi/auth"
	"funnelapi/errs"
	"funnelapi/models"
	"funnelapi/queries"
	"funnelapi/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FunnelController struct {
	Funnels queries.FunnelStore
	Logger  *logrus.Entry
}

func NewFunnelController(funnels queries.FunnelStore, logger *logrus.Entry) *FunnelController {
	return &FunnelController{
		Funnels: funnels,
		Logger:  logger,
	}
}

type funnelRequest struct {
	WebsiteID   string  `json:"websiteId" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// ListFunnels returns the page of funnels the user owns or shares through a team.
func (fc *FunnelController) ListFunnels(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	page, err := utils.ParsePageParams(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	websiteID, err := optionalUUID(c, "websiteId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	result, err := fc.Funnels.SearchFunnels(c.UserContext(), queries.SearchFilter{
		UserID:         actor.ID,
		TeamWebsiteIDs: actor.TeamWebsiteIDs,
		IncludeTeams:   true,
		Query:          c.Query("query"),
		WebsiteID:      websiteID,
		Page:           page,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(result)
}

func (fc *FunnelController) CreateFunnel(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req funnelRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err)
	}

	funnel, err := fc.Funnels.CreateFunnel(c.UserContext(), &models.Funnel{
		ID:          utils.NewID(),
		UserID:      actor.ID,
		WebsiteID:   req.WebsiteID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	fc.Logger.WithFields(logrus.Fields{
		"funnel_id": funnel.ID,
		"user_id":   actor.ID,
	}).Info("Funnel created")

	return c.JSON(funnel)
}

func (fc *FunnelController) GetFunnel(c *fiber.Ctx) error {
	funnel, _, err := fc.authorizedFunnel(c, auth.CanViewFunnel)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(funnel)
}

// UpdateFunnel writes websiteId, name and description. The owner is never reassigned.
func (fc *FunnelController) UpdateFunnel(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req funnelRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err)
	}

	if _, _, err := fc.authorizedFunnel(c, auth.CanUpdateFunnel); err != nil {
		return utils.HandleError(c, err)
	}

	funnel, err := fc.Funnels.UpdateFunnel(c.UserContext(), id, models.FunnelUpdate{
		WebsiteID:   &req.WebsiteID,
		Name:        &req.Name,
		Description: req.Description,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(funnel)
}

func (fc *FunnelController) DeleteFunnel(c *fiber.Ctx) error {
	_, actor, err := fc.authorizedFunnel(c, auth.CanDeleteFunnel)
	if err != nil {
		return utils.HandleError(c, err)
	}

	funnel, err := fc.Funnels.DeleteFunnel(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}

	fc.Logger.WithFields(logrus.Fields{
		"funnel_id": funnel.ID,
		"user_id":   actor.ID,
	}).Info("Funnel deleted")

	return c.JSON(fiber.Map{"message": "Funnel deleted successfully"})
}

// authorizedFunnel loads the funnel named by the path and applies allow. A missing funnel is
// handed to allow as nil, so it is reported as unauthorized rather than not found.
func (fc *FunnelController) authorizedFunnel(c *fiber.Ctx, allow func(*auth.Actor, *models.Funnel) bool) (*models.Funnel, *auth.Actor, error) {
	actor, err := requireActor(c)
	if err != nil {
		return nil, nil, err
	}
	id, err := pathID(c)
	if err != nil {
		return nil, nil, err
	}

	funnel, err := fc.Funnels.GetFunnelByID(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if !allow(actor, funnel) {
		return nil, nil, errs.ErrNotAuthorized
	}
	return funnel, actor, nil
}
