package httpapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/aruizh/wind-history/internal/forecast"
	"github.com/aruizh/wind-history/internal/store"
	"github.com/aruizh/wind-history/internal/wind"
)

var validate = validator.New()

// refreshTimeout bounds a handler-triggered refresh; a first-run backfill
// walks many delayed sub-windows.
const refreshTimeout = 10 * time.Minute

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *wind.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/wind/refresh", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		result, err := service.Refresh(ctx)
		if err != nil {
			if errors.Is(err, wind.ErrMissingCredential) || errors.Is(err, wind.ErrInvalidRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	})

	v1.Get("/wind/latest", func(c *fiber.Ctx) error {
		obs, err := service.Latest()
		if err != nil {
			if errors.Is(err, wind.ErrNoData) {
				return fiber.NewError(fiber.StatusNotFound, "no wind data for requested location")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read wind history")
		}
		return c.JSON(obs)
	})

	v1.Get("/wind/history", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		obs, err := service.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, wind.ErrInvalidRange) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read wind history")
		}

		return c.JSON(fiber.Map{
			"location":     service.Location(),
			"from":         req.From,
			"to":           req.To,
			"observations": obs,
		})
	})

	v1.Get("/wind/summary", func(c *fiber.Ctx) error {
		obs, err := service.All()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read wind history")
		}
		return c.JSON(wind.Summarize(obs))
	})

	v1.Get("/wind/forecast", func(c *fiber.Ctx) error {
		window := c.QueryInt("window", forecast.DefaultWindow)
		if window <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "window must be positive")
		}

		obs, err := service.All()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read wind history")
		}
		pf, err := forecast.Predict(obs, window)
		if err != nil {
			if errors.Is(err, forecast.ErrInsufficientHistory) {
				return fiber.NewError(fiber.StatusConflict, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compute forecast")
		}
		return c.JSON(pf)
	})

	v1.Get("/wind/export", func(c *fiber.Ctx) error {
		obs, err := service.All()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read wind history")
		}

		// Optional range; defaults to the whole cache.
		if c.Query("from") != "" || c.Query("to") != "" {
			var req rangeQuery
			if err := req.bind(c); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			if err := validate.Struct(req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			obs, err = service.Range(req.From, req.To)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to read wind history")
			}
		}
		if len(obs) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "no wind data to export")
		}

		data, err := store.MarshalCSV(obs)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render csv")
		}

		name := fmt.Sprintf("wind_history_%s_%s.csv",
			obs[0].Time.UTC().Format("20060102"),
			obs[len(obs)-1].Time.UTC().Format("20060102"))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
		return c.Send(data)
	})
}

// rangeQuery holds from/to query parameters for range-scoped endpoints.
type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	r.From = from
	r.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
