package controllers

import (
	"log/slog"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/applications/feedback"

	"github.com/labstack/echo/v4"
)

type FeedbackController struct {
	log         *slog.Logger
	submit      *feedback.SubmitFeedbackUC
	featured    *feedback.GetFeaturedFeedbackUC
	list        *feedback.GetAllFeedbackAdminUC
	setFeatured *feedback.UpdateFeedbackFeaturedUC
	delete      *feedback.DeleteFeedbackUC
}

func NewFeedbackController(log *slog.Logger, repo feedback.Repository, cars feedback.CarLookup) *FeedbackController {
	return &FeedbackController{
		log:         log,
		submit:      feedback.NewSubmitFeedbackUC(log, repo, cars),
		featured:    feedback.NewGetFeaturedFeedbackUC(log, repo),
		list:        feedback.NewGetAllFeedbackAdminUC(log, repo),
		setFeatured: feedback.NewUpdateFeedbackFeaturedUC(log, repo),
		delete:      feedback.NewDeleteFeedbackUC(log, repo),
	}
}

// Featured handles the public GET /api/v1/feedback.
func (h *FeedbackController) Featured(c echo.Context) error {
	items, err := h.featured.Invoke(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to retrieve feedback")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *FeedbackController) Submit(c echo.Context) error {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Please log in to leave feedback", Redirect: "/login"})
	}
	payload, err := readBody(c)
	if err != nil {
		return badPayload(c, err)
	}

	author := feedback.Author{UserID: id.UserID, Name: id.Name, Email: id.Email}
	created, err := h.submit.Invoke(c.Request().Context(), author, payload)
	if err != nil {
		return respondError(c, err, "Failed to submit feedback")
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *FeedbackController) List(c echo.Context) error {
	return h.respondAll(c)
}

func (h *FeedbackController) SetFeatured(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return badPayload(c, err)
	}
	if err := h.setFeatured.Invoke(c.Request().Context(), c.Param("feedbackID"), payload); err != nil {
		return respondError(c, err, "Failed to update feedback")
	}
	return h.respondAll(c)
}

func (h *FeedbackController) Delete(c echo.Context) error {
	if !requireConfirm(c) {
		return confirmationRequired(c)
	}
	if err := h.delete.Invoke(c.Request().Context(), c.Param("feedbackID")); err != nil {
		return respondError(c, err, "Failed to delete feedback")
	}
	return h.respondAll(c)
}

func (h *FeedbackController) respondAll(c echo.Context) error {
	items, err := h.list.Invoke(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Failed to retrieve feedback")
	}
	return c.JSON(http.StatusOK, items)
}
