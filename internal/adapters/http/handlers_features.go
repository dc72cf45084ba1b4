package http

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/core/domain"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// ListFeaturesHandler returns features filtered by type, status, and team.
func ListFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := ports.FeatureFilter{
			Type:   domain.FeatureType(c.Query("type")),
			Status: domain.FeatureStatus(c.Query("status")),
			TeamID: c.Query("team_id"),
			Offset: c.QueryInt("offset", 0),
			Limit:  c.QueryInt("limit", 100),
		}
		if filter.Type != "" && !domain.ValidFeatureType(filter.Type) {
			return errBadRequest(c, "unknown feature type "+string(filter.Type))
		}
		if filter.Status != "" && !domain.ValidFeatureStatus(filter.Status) {
			return errBadRequest(c, "unknown status "+string(filter.Status))
		}
		if m := c.Query("maintenance"); m != "" {
			v := m == "true" || m == "1"
			filter.Maintenance = &v
		}

		features, total, err := deps.Features.List(c.Context(), filter)
		if err != nil {
			return errInternal(c, err.Error())
		}

		pg := Pagination{Offset: filter.Offset, Limit: filter.Limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: features, Pagination: pg})
	}
}

// GetFeatureHandler returns a single feature by ID.
func GetFeatureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "feature id is required")
		}
		feature, err := deps.Features.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "feature not found")
		}
		return c.JSON(feature)
	}
}

// CreateFeatureHandler creates a new infrastructure feature.
func CreateFeatureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.CreateFeatureInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		user := currentUser(c)
		feature, err := deps.Features.Create(c.Context(), in, user.ID)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(feature)
	}
}

// UpdateFeatureHandler rewrites a feature's mutable fields.
func UpdateFeatureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		existing, err := deps.Features.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "feature not found")
		}

		var f domain.Feature
		if err := c.BodyParser(&f); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		f.ID = existing.ID
		f.FeatureID = existing.FeatureID
		f.Type = existing.Type
		f.CreatedBy = existing.CreatedBy

		updated, err := deps.Features.Update(c.Context(), &f)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.JSON(updated)
	}
}

type featureStatusRequest struct {
	Status      string `json:"status"`
	Maintenance *bool  `json:"maintenance,omitempty"`
}

// FeatureStatusHandler updates field-work status and the maintenance flag.
func FeatureStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var req featureStatusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		feature, err := deps.Features.SetStatus(c.Context(), id, domain.FeatureStatus(req.Status), req.Maintenance)
		if err != nil {
			if strings.Contains(err.Error(), "unknown status") {
				return errBadRequest(c, err.Error())
			}
			return errNotFound(c, "feature not found")
		}
		return c.JSON(feature)
	}
}

// DeleteFeatureHandler removes a feature.
func DeleteFeatureHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Features.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "feature not found")
		}
		return c.SendStatus(204)
	}
}

// NearbyFeaturesHandler returns features within a radius of a point.
func NearbyFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Zero is a legitimate coordinate here (the Greenwich meridian runs
		// through the service area), so test for presence, not value.
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 500)
		limit := c.QueryInt("limit", 50)
		if radius <= 0 || radius > 10000 {
			return errBadRequest(c, "radius must be between 1 and 10000 meters")
		}

		features, err := deps.Features.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(features)
	}
}

// BBoxFeaturesHandler returns features intersecting a map viewport.
func BBoxFeaturesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, p := range []string{"min_lat", "min_lon", "max_lat", "max_lon"} {
			if c.Query(p) == "" {
				return errBadRequest(c, "min_lat, min_lon, max_lat, max_lon are required")
			}
		}
		b := domain.Bounds{
			MinLat: c.QueryFloat("min_lat", 0),
			MinLon: c.QueryFloat("min_lon", 0),
			MaxLat: c.QueryFloat("max_lat", 0),
			MaxLon: c.QueryFloat("max_lon", 0),
		}
		limit := c.QueryInt("limit", 1000)

		features, err := deps.Features.FindInBounds(c.Context(), b, limit)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=30")
		return c.JSON(features)
	}
}

// allowed photo extensions for upload
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// UploadFeatureImagesHandler stores multipart photos against a feature.
// Field name: "images", repeated.
func UploadFeatureImagesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := deps.Features.GetByID(c.Context(), id); err != nil {
			return errNotFound(c, "feature not found")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return errBadRequest(c, "multipart form required")
		}
		files := form.File["images"]
		if len(files) == 0 {
			return errBadRequest(c, "no images in request")
		}
		if len(files) > 10 {
			return errBadRequest(c, "at most 10 images per request")
		}

		var paths []string
		for _, fh := range files {
			if fh.Size > deps.MaxImageBytes {
				return errTooLarge(c, fmt.Sprintf("%s exceeds %d bytes", fh.Filename, deps.MaxImageBytes))
			}
			if !imageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
				return errBadRequest(c, "unsupported image format: "+fh.Filename)
			}

			src, err := fh.Open()
			if err != nil {
				return errInternal(c, err.Error())
			}
			data, err := io.ReadAll(src)
			src.Close()
			if err != nil {
				return errInternal(c, err.Error())
			}

			path, err := deps.Images.Save(c.Context(), id, fh.Filename, data)
			if err != nil {
				return errBadRequest(c, fmt.Sprintf("%s: %v", fh.Filename, err))
			}
			paths = append(paths, path)
		}

		if err := deps.Features.AttachImages(c.Context(), id, paths); err != nil {
			return errInternal(c, err.Error())
		}
		return c.Status(201).JSON(fiber.Map{"images": paths})
	}
}

// ServeImageHandler streams a stored photo or thumbnail back to the client.
func ServeImageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Params("*")
		if path == "" {
			return errBadRequest(c, "image path is required")
		}

		data, err := deps.Images.Open(c.Context(), path)
		if err != nil {
			return errNotFound(c, "image not found")
		}

		if strings.HasSuffix(strings.ToLower(path), ".png") {
			c.Set(fiber.HeaderContentType, "image/png")
		} else {
			c.Set(fiber.HeaderContentType, "image/jpeg")
		}
		c.Set("Cache-Control", "public, max-age=86400")
		return c.Send(data)
	}
}
