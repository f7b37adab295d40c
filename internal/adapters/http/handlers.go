package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geostory/internal/core/domain"
)

// parseTarget reads lat/lon/radius query parameters. Range validation is the
// pipeline's job; the handler only rejects missing parameters.
func parseTarget(c *fiber.Ctx) (domain.GeoPoint, float64, error) {
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return domain.GeoPoint{}, 0, errBadRequest(c, "lat and lon are required")
	}
	target := domain.GeoPoint{
		Lat: c.QueryFloat("lat", 0),
		Lon: c.QueryFloat("lon", 0),
	}
	radius := c.QueryFloat("radius_km", 0)
	if radius < 0 || radius > 20000 {
		return domain.GeoPoint{}, 0, errBadRequest(c, "radius_km must be between 0 and 20000")
	}
	return target, radius, nil
}

// NearbyDocumentsHandler lists catalog entries near a location without
// fetching their content.
func NearbyDocumentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, radius, err := parseTarget(c)
		if err != nil {
			return err
		}

		entries, err := deps.Pipeline.DiscoverNearby(c.UserContext(), target, radius)
		if err != nil {
			return pipelineError(c, err)
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(fiber.Map{
			"count":     len(entries),
			"documents": entries,
		})
	}
}

// GenerateArticleHandler runs the full discovery and synthesis pipeline and
// returns the article with its per-document analyses.
func GenerateArticleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		target, radius, err := parseTarget(c)
		if err != nil {
			return err
		}

		article, err := deps.Pipeline.DiscoverAndSynthesize(c.UserContext(), target, radius)
		if err != nil {
			return pipelineError(c, err)
		}

		return c.JSON(article)
	}
}

// ListRunsHandler returns recent pipeline runs with offset pagination.
func ListRunsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Runs == nil {
			return errNotFound(c, "run history is not enabled")
		}

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		runs, err := deps.Runs.ListRecent(c.UserContext(), offset+limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		total := len(runs)
		if offset >= total {
			runs = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			runs = runs[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: runs, Pagination: pg})
	}
}
