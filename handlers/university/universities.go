package university

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/jagravi04/unimatch-finder/eligibility"
	"github.com/jagravi04/unimatch-finder/services"
	"github.com/jagravi04/unimatch-finder/utils/response"
)

// UniversityHandler handles catalog requests
type UniversityHandler struct {
	catalog *services.CatalogService
}

// NewUniversityHandler creates a new university handler
func NewUniversityHandler(catalog *services.CatalogService) *UniversityHandler {
	return &UniversityHandler{catalog: catalog}
}

// ListUniversities handles GET /api/v1/universities
func (h *UniversityHandler) ListUniversities(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	rows, err := h.catalog.Search(c.UserContext(), criteria)
	if err != nil {
		log.Errorw("catalog search failed", "error", err)
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	return response.List(c, rows, len(rows))
}

// GetUniversity handles GET /api/v1/universities/:id
func (h *UniversityHandler) GetUniversity(c *fiber.Ctx) error {
	university, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if services.IsNotFound(err) {
			return response.NotFound(c, "University not found")
		}
		log.Errorw("university lookup failed", "id", c.Params("id"), "error", err)
		return response.InternalServerError(c, "Failed to fetch university")
	}

	return response.Success(c, university)
}

// CompareUniversities handles GET /api/v1/universities/compare?ids=a,b,c
func (h *UniversityHandler) CompareUniversities(c *fiber.Ctx) error {
	ids := splitIDs(c.Query("ids"))
	if len(ids) == 0 {
		return response.BadRequest(c, "ids is required")
	}

	universities, err := h.catalog.Compare(c.UserContext(), ids)
	if err != nil {
		if errors.Is(err, services.ErrTooManyToCompare) {
			return response.BadRequest(c, err.Error())
		}
		log.Errorw("catalog compare failed", "error", err)
		return response.InternalServerError(c, "Failed to fetch universities")
	}

	return response.List(c, universities, len(universities))
}

// GetCatalogOptions handles GET /api/v1/catalog/options
func (h *UniversityHandler) GetCatalogOptions(c *fiber.Ctx) error {
	opts, err := h.catalog.Options(c.UserContext())
	if err != nil {
		log.Errorw("catalog options failed", "error", err)
		return response.InternalServerError(c, "Failed to fetch catalog options")
	}
	return response.Success(c, opts)
}

func parseCriteria(c *fiber.Ctx) (eligibility.Criteria, error) {
	criteria := eligibility.Criteria{
		Country:     strings.TrimSpace(c.Query("country")),
		DegreeLevel: strings.TrimSpace(c.Query("degree_level")),
	}

	numeric := []struct {
		name string
		dest **float64
	}{
		{"min_tuition", &criteria.MinTuition},
		{"max_tuition", &criteria.MaxTuition},
		{"user_gpa", &criteria.UserGPA},
		{"user_ielts", &criteria.UserIELTS},
	}
	for _, n := range numeric {
		raw := strings.TrimSpace(c.Query(n.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return criteria, fmt.Errorf("%s must be a number", n.name)
		}
		*n.dest = eligibility.Float(v)
	}

	return criteria, nil
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
