// handlers/comparison_routes.go
package handlers

import (
	"net/url"

	"interest-insights-system/middleware"
	"interest-insights-system/models"
	"interest-insights-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

func SetupComparisonRoutes(
	app *fiber.App,
	comparisonService *services.ComparisonService,
	bulkJob *services.BulkRecomputeJob,
	snapshotService *services.SnapshotService,
) {
	// 🔐 Secured routes — require user context (userID) forwarded by Gateway.
	// The gateway forwards paths like /api/v1/insights/s/user/comparison/x -> /user/comparison/x
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/comparison/:category", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		category, err := url.PathUnescape(c.Params("category"))
		if err != nil || category == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid category",
			})
		}

		cmp, err := comparisonService.Compare(userID, category)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute comparison",
				"cause": err.Error(),
			})
		}
		if cmp == nil {
			// Not opted in, no such interest, or an empty cohort — all are
			// normal outcomes for the widget, never HTTP errors.
			return c.JSON(fiber.Map{
				"available": false,
				"category":  titleCaser.String(category),
			})
		}

		return c.JSON(fiber.Map{
			"available":  true,
			"comparison": cmp,
		})
	})

	securedGroup.Get("/user/comparisons", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		comparisons, err := comparisonService.CompareAll(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute comparisons",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"comparisons": comparisons,
			"count":       len(comparisons),
		})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	adminGroup.Post("/cohorts/recompute", func(c *fiber.Ctx) error {
		type Req struct {
			AgeRangeMin int    `json:"age_range_min"`
			AgeRangeMax int    `json:"age_range_max"`
			Category    string `json:"category"`
			IntentLevel string `json:"intent_level"`
		}
		var req Req
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "invalid JSON",
					"cause": err.Error(),
				})
			}
		}

		// No body (or no category) means a full run over every live cohort.
		if req.Category == "" {
			summary, err := bulkJob.RunAll()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "bulk recompute failed",
					"cause": err.Error(),
				})
			}
			return c.JSON(summary)
		}

		intent, err := models.ParseCommitmentLevel(req.IntentLevel)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid intent_level",
				"cause": err.Error(),
			})
		}

		band := bulkJob.Classifier.Classify(req.AgeRangeMin, req.AgeRangeMax)
		categorySlug := slug.Make(req.Category)
		if err := bulkJob.Maintainer.Recompute(band, categorySlug, intent); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "cohort recompute failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message":       "cohort recomputed",
			"age_band":      band,
			"category_slug": categorySlug,
			"intent_level":  intent,
		})
	})

	adminGroup.Post("/cohorts/snapshot", func(c *fiber.Ctx) error {
		url, err := snapshotService.ExportCohortStats(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "snapshot export failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"message": "snapshot exported",
			"url":     url,
		})
	})
}
