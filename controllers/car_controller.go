package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SpicyTech2823/Car-rental/applications/car"

	"github.com/labstack/echo/v4"
)

type CarController struct {
	log    *slog.Logger
	list   *car.GetAllCarsUC
	get    *car.GetCarUC
	create *car.CreateCarUC
	update *car.UpdateCarUC
	delete *car.DeleteCarUC
}

func NewCarController(log *slog.Logger, repo car.Repository) *CarController {
	return &CarController{
		log:    log,
		list:   car.NewGetAllCarsUC(log, repo),
		get:    car.NewGetCarUC(log, repo),
		create: car.NewCreateCarUC(log, repo),
		update: car.NewUpdateCarUC(log, repo),
		delete: car.NewDeleteCarUC(log, repo),
	}
}

// List handles GET /api/v1/cars?category=.
func (h *CarController) List(c echo.Context) error {
	cars, err := h.list.Invoke(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return respondError(c, err, "Failed to retrieve cars")
	}
	return c.JSON(http.StatusOK, cars)
}

func (h *CarController) Get(c echo.Context) error {
	found, err := h.get.Invoke(c.Request().Context(), c.Param("carID"))
	if err != nil {
		return respondError(c, err, "Failed to retrieve car")
	}
	return c.JSON(http.StatusOK, found)
}

// Create, Update and Delete answer with the re-fetched catalog.

func (h *CarController) Create(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return badPayload(c, err)
	}
	created, err := h.create.Invoke(c.Request().Context(), payload)
	if err != nil {
		return respondError(c, err, "Failed to create car")
	}
	h.log.Info(fmt.Sprintf("[car-controller] Car created successfully. ID: %d", created.ID))
	return h.respondCatalog(c, http.StatusCreated)
}

func (h *CarController) Update(c echo.Context) error {
	payload, err := readBody(c)
	if err != nil {
		return badPayload(c, err)
	}
	if _, err := h.update.Invoke(c.Request().Context(), c.Param("carID"), payload); err != nil {
		return respondError(c, err, "Failed to update car")
	}
	return h.respondCatalog(c, http.StatusOK)
}

func (h *CarController) Delete(c echo.Context) error {
	if !requireConfirm(c) {
		return confirmationRequired(c)
	}
	if err := h.delete.Invoke(c.Request().Context(), c.Param("carID")); err != nil {
		return respondError(c, err, "Failed to delete car")
	}
	return h.respondCatalog(c, http.StatusOK)
}

func (h *CarController) respondCatalog(c echo.Context, status int) error {
	cars, err := h.list.Invoke(c.Request().Context(), "")
	if err != nil {
		return respondError(c, err, "Failed to retrieve cars")
	}
	return c.JSON(status, cars)
}
