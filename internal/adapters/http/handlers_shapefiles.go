package http

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/geofieldx/geofieldx/internal/core/usecases"
)

// UploadShapefileHandler accepts a zipped shapefile archive and converts it
// to GeoJSON. Multipart fields: "file" (the ZIP), "name", "type_label",
// "team_id" (optional).
func UploadShapefileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return errBadRequest(c, "file field is required")
		}
		if fh.Size > deps.MaxArchiveBytes {
			return errTooLarge(c, fmt.Sprintf("archive exceeds %d bytes", deps.MaxArchiveBytes))
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".zip") {
			return errBadRequest(c, "archive must be a .zip file")
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

		name := c.FormValue("name")
		if name == "" {
			name = strings.TrimSuffix(fh.Filename, ".zip")
		}
		in := usecases.ImportShapefileInput{
			Name:      name,
			TypeLabel: c.FormValue("type_label"),
			Filename:  fh.Filename,
			Archive:   data,
		}
		if teamID := c.FormValue("team_id"); teamID != "" {
			in.TeamID = &teamID
		}

		user := currentUser(c)
		sf, err := deps.Shapefiles.Import(c.Context(), in, user.ID)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		return c.Status(201).JSON(sf)
	}
}

// ListShapefilesHandler returns imported collections, metadata only.
func ListShapefilesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shapefiles, err := deps.Shapefiles.List(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(shapefiles)
	}
}

// GetShapefileHandler returns collection metadata by ID.
func GetShapefileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		sf, err := deps.Shapefiles.GetByID(c.Context(), id)
		if err != nil {
			return errNotFound(c, "shapefile not found")
		}
		return c.JSON(sf)
	}
}

// ShapefileGeoJSONHandler streams the converted FeatureCollection.
func ShapefileGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		data, err := deps.Shapefiles.GeoJSON(c.Context(), id)
		if err != nil {
			return errNotFound(c, "shapefile not found")
		}

		c.Set(fiber.HeaderContentType, "application/geo+json")
		c.Set("Cache-Control", "public, max-age=3600")
		return c.Send(data)
	}
}

// DeleteShapefileHandler removes an imported collection. Supervisor only.
func DeleteShapefileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := deps.Shapefiles.Delete(c.Context(), id); err != nil {
			return errNotFound(c, "shapefile not found")
		}
		return c.SendStatus(204)
	}
}
