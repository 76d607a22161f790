package http

import (
	"errors"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/rfid-presence-api/internal/application/catalog"
	"github.com/jhoicas/rfid-presence-api/internal/application/dto"
	"github.com/jhoicas/rfid-presence-api/internal/domain"
	"github.com/jhoicas/rfid-presence-api/internal/infrastructure/report"
)

// CatalogHandler administra el catálogo hex/EPC y las ubicaciones (admin).
type CatalogHandler struct {
	tags      *catalog.TagUseCase
	locations *catalog.LocationUseCase
	validate  *validator.Validate
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(tags *catalog.TagUseCase, locations *catalog.LocationUseCase) *CatalogHandler {
	return &CatalogHandler{tags: tags, locations: locations, validate: validator.New()}
}

// CreateTag registra una entrada hex→línea de PO. 409 si el hex ya existe.
func (h *CatalogHandler) CreateTag(c *fiber.Ctx) error {
	var in dto.CreateTagRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	tag, err := h.tags.Create(c.Context(), in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// GetTag consulta una entrada del catálogo por hex.
func (h *CatalogHandler) GetTag(c *fiber.Ctx) error {
	tag, err := h.tags.GetByHex(c.Context(), c.Params("hex"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(tag)
}

// ListTags pagina el catálogo.
func (h *CatalogHandler) ListTags(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	tags, err := h.tags.List(c.Context(), page)
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(tags), "tags": tags})
}

// ImportTags importa el catálogo desde un XLSX subido (multipart "file").
// Continúa ante filas inválidas y devuelve el resumen.
func (h *CatalogHandler) ImportTags(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo 'file' requerido"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo abrir el archivo"})
	}
	defer file.Close()

	rows, err := report.ParseTagImport(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: err.Error()})
	}
	return c.JSON(h.tags.Import(c.Context(), rows))
}

// CreateLocation registra una ubicación con su lector. 409 si el device ya
// custodia otra ubicación (registro concurrente duplicado incluido).
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	loc, err := h.locations.Create(c.Context(), in)
	if err != nil {
		return catalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(loc)
}

// GetLocation consulta una ubicación por su código.
func (h *CatalogHandler) GetLocation(c *fiber.Ctx) error {
	loc, err := h.locations.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(loc)
}

// ListLocations devuelve todas las ubicaciones configuradas.
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	locs, err := h.locations.List(c.Context())
	if err != nil {
		return catalogError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(locs), "locations": locs})
}

func catalogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya está registrado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
