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

type FunnelStepController struct {
	Steps  queries.FunnelStepStore
	Logger *logrus.Entry
}

func NewFunnelStepController(steps queries.FunnelStepStore, logger *logrus.Entry) *FunnelStepController {
	return &FunnelStepController{
		Steps:  steps,
		Logger: logger,
	}
}

type createFunnelStepRequest struct {
	WebsiteID   string               `json:"websiteId" validate:"required,uuid"`
	FunnelID    string               `json:"funnelId" validate:"required,uuid"`
	Type        string               `json:"type" validate:"required,steptype"`
	Name        string               `json:"name" validate:"required,max=200"`
	Description *string              `json:"description" validate:"omitempty,max=500"`
	Step        int                  `json:"step" validate:"required,min=1,max=20"`
	Settings    *models.StepSettings `json:"settings"`
}

// updateFunnelStepRequest leaves type and settings untouched when they are omitted.
type updateFunnelStepRequest struct {
	WebsiteID   string               `json:"websiteId" validate:"required,uuid"`
	FunnelID    string               `json:"funnelId" validate:"required,uuid"`
	Type        string               `json:"type" validate:"omitempty,steptype"`
	Name        string               `json:"name" validate:"required,max=200"`
	Description *string              `json:"description" validate:"omitempty,max=500"`
	Step        int                  `json:"step" validate:"required,min=1,max=20"`
	Settings    *models.StepSettings `json:"settings"`
}

func (sc *FunnelStepController) ListFunnelSteps(c *fiber.Ctx) error {
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
	funnelID, err := optionalUUID(c, "funnelId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	result, err := sc.Steps.SearchFunnelSteps(c.UserContext(), queries.SearchFilter{
		UserID:         actor.ID,
		TeamWebsiteIDs: actor.TeamWebsiteIDs,
		IncludeTeams:   true,
		Query:          c.Query("query"),
		WebsiteID:      websiteID,
		FunnelID:       funnelID,
		Page:           page,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	views := make([]models.FunnelStepView, 0, len(result.Data))
	for _, step := range result.Data {
		view, err := step.View()
		if err != nil {
			return utils.HandleError(c, err)
		}
		views = append(views, *view)
	}

	return c.JSON(queries.SearchResult[models.FunnelStepView]{
		Data:       views,
		Count:      result.Count,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func (sc *FunnelStepController) CreateFunnelStep(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req createFunnelStepRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err)
	}
	stepType, _ := models.ParseStepType(req.Type)

	var settings models.StepSettings
	if req.Settings != nil {
		settings = *req.Settings
	}
	raw, err := models.EncodeSettings(settings)
	if err != nil {
		return utils.HandleError(c, err)
	}

	step, err := sc.Steps.CreateFunnelStep(c.UserContext(), &models.FunnelStep{
		ID:          utils.NewID(),
		UserID:      actor.ID,
		WebsiteID:   req.WebsiteID,
		FunnelID:    req.FunnelID,
		Type:        string(stepType),
		Name:        req.Name,
		Description: req.Description,
		Step:        req.Step,
		Settings:    raw,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}

	sc.Logger.WithFields(logrus.Fields{
		"funnel_step_id": step.ID,
		"funnel_id":      step.FunnelID,
		"user_id":        actor.ID,
	}).Info("Funnel step created")

	return respondStep(c, step)
}

func (sc *FunnelStepController) GetFunnelStep(c *fiber.Ctx) error {
	step, _, err := authorizedStep(c, sc.Steps, c.Params("id"), auth.CanViewFunnelStep)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return respondStep(c, step)
}

func (sc *FunnelStepController) UpdateFunnelStep(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req updateFunnelStepRequest
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err)
	}

	if _, _, err := authorizedStep(c, sc.Steps, id, auth.CanUpdateFunnelStep); err != nil {
		return utils.HandleError(c, err)
	}

	update := models.FunnelStepUpdate{
		WebsiteID:   &req.WebsiteID,
		FunnelID:    &req.FunnelID,
		Name:        &req.Name,
		Description: req.Description,
		Step:        &req.Step,
		Settings:    req.Settings,
	}
	if req.Type != "" {
		stepType, _ := models.ParseStepType(req.Type)
		update.Type = &stepType
	}

	step, err := sc.Steps.UpdateFunnelStep(c.UserContext(), id, update)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return respondStep(c, step)
}

func (sc *FunnelStepController) DeleteFunnelStep(c *fiber.Ctx) error {
	_, actor, err := authorizedStep(c, sc.Steps, c.Params("id"), auth.CanDeleteFunnelStep)
	if err != nil {
		return utils.HandleError(c, err)
	}

	step, err := sc.Steps.DeleteFunnelStep(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.HandleError(c, err)
	}

	sc.Logger.WithFields(logrus.Fields{
		"funnel_step_id": step.ID,
		"user_id":        actor.ID,
	}).Info("Funnel step deleted")

	return c.JSON(fiber.Map{"message": "Funnel step deleted successfully"})
}

// authorizedStep loads step id and applies allow; a missing step is denied, not reported missing.
func authorizedStep(c *fiber.Ctx, steps queries.FunnelStepStore, id string, allow func(*auth.Actor, *models.FunnelStep) bool) (*models.FunnelStep, *auth.Actor, error) {
	actor, err := requireActor(c)
	if err != nil {
		return nil, nil, err
	}
	if err := utils.ValidateVar("id", id, "required,uuid"); err != nil {
		return nil, nil, err
	}

	step, err := steps.GetFunnelStepByID(c.UserContext(), id)
	if err != nil {
		return nil, nil, err
	}
	if !allow(actor, step) {
		return nil, nil, errs.ErrNotAuthorized
	}
	return step, actor, nil
}

func respondStep(c *fiber.Ctx, step *models.FunnelStep) error {
	view, err := step.View()
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(view)
}
