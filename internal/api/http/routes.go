package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, ctrl *dashboard.Controller, history *store.MemoryStore) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(newView(ctrl.State()))
	})

	v1.Post("/dashboard/locate", func(c *fiber.Ctx) error {
		if err := ctrl.Initialize(); err != nil {
			return controllerError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(newView(ctrl.State()))
	})

	v1.Post("/dashboard/city", func(c *fiber.Ctx) error {
		var req cityRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		if err := ctrl.SubmitCityName(req.Name); err != nil {
			return controllerError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(newView(ctrl.State()))
	})

	v1.Post("/dashboard/unit", func(c *fiber.Ctx) error {
		if err := ctrl.ToggleUnit(); err != nil {
			return controllerError(err)
		}
		return c.JSON(newView(ctrl.State()))
	})

	v1.Post("/dashboard/refresh", func(c *fiber.Ctx) error {
		if err := ctrl.Refresh(); err != nil {
			return controllerError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(newView(ctrl.State()))
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		fav, err := ctrl.AddCurrentToFavorites()
		switch {
		case errors.Is(err, dashboard.ErrNoReading):
			return c.SendStatus(fiber.StatusNoContent)
		case errors.Is(err, dashboard.ErrDuplicateFavorite):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case err != nil:
			return controllerError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(newFavoriteView(fav, ctrl.State().IsCelsius))
	})

	v1.Post("/favorites/select", func(c *fiber.Ctx) error {
		var req selectRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		fav, ok := ctrl.State().Favorite(req.Name)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "city is not a favorite")
		}
		if err := ctrl.SelectFavorite(fav); err != nil {
			return controllerError(err)
		}
		return c.Status(fiber.StatusAccepted).JSON(newView(ctrl.State()))
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		q := historyQuery{City: c.Query("city")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		entries, err := history.History(q.City)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather history")
		}

		return c.JSON(fiber.Map{
			"city":     q.City,
			"readings": entries,
		})
	})
}

// cityRequest may carry a blank name; the controller ignores it.
type cityRequest struct {
	Name string `json:"name" validate:"max=200"`
}

type selectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type historyQuery struct {
	City string `validate:"required,max=200"`
}

func bindBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func controllerError(err error) error {
	if errors.Is(err, dashboard.ErrStopped) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
