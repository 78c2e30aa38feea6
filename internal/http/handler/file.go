package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filevault/internal/service"
)

type uploadRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
}

// UploadFile handles POST /files. Folders carry no data; files and images
// carry a base64 body in the data field.
func UploadFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req uploadRequest
		_ = c.BodyParser(&req)

		view, err := fileSvc.Create(c.UserContext(), c.Get(TokenHeader), service.CreateFileInput{
			Name:     req.Name,
			Type:     req.Type,
			Data:     req.Data,
			ParentID: req.ParentID,
			IsPublic: req.IsPublic,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	}
}

// GetFile handles GET /files/:id.
func GetFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := fileSvc.Get(c.UserContext(), c.Get(TokenHeader), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(view)
	}
}

// ListFiles handles GET /files?parentId=&page=. A page outside the data or
// an unknown parent returns an empty list, not an error.
func ListFiles(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "0"))
		if err != nil {
			page = 0
		}

		views, err := fileSvc.List(c.UserContext(), c.Get(TokenHeader), c.Query("parentId"), page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(views)
	}
}

// PublishFile handles PUT /files/:id/publish.
func PublishFile(fileSvc service.FileService) fiber.Handler {
	return setVisibility(fileSvc, true)
}

// UnpublishFile handles PUT /files/:id/unpublish.
func UnpublishFile(fileSvc service.FileService) fiber.Handler {
	return setVisibility(fileSvc, false)
}

func setVisibility(fileSvc service.FileService, public bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := fileSvc.SetVisibility(c.UserContext(), c.Get(TokenHeader), c.Params("id"), public)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(view)
	}
}

// DownloadFile handles GET /files/:id/data?size=. The response body is the
// raw blob, typed from the node's name.
func DownloadFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, contentType, err := fileSvc.Read(c.UserContext(), c.Get(TokenHeader), c.Params("id"), c.Query("size"))
		if err != nil {
			return writeServiceError(c, err)
		}

		c.Set(fiber.HeaderContentType, contentType)
		return c.SendStream(rc)
	}
}
