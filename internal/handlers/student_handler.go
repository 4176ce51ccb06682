package handlers

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/services"
)

type StudentHandler struct {
	student     services.StudentService
	extractor   services.TextExtractor
	maxFileSize int64
	log         *zap.Logger
}

func NewStudentHandler(
	student services.StudentService,
	extractor services.TextExtractor,
	maxFileSize int64,
	log *zap.Logger,
) *StudentHandler {
	return &StudentHandler{
		student:     student,
		extractor:   extractor,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

func (h *StudentHandler) HandleAnalyze(c *fiber.Ctx) error {
	var profile models.StudentProfile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse profile fields",
		})
	}

	header, err := c.FormFile("job_description")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please upload a job description file as 'job_description'.",
		})
	}

	uploads, err := openUploads([]*multipart.FileHeader{header}, h.maxFileSize)
	if err != nil {
		return uploadError(c, err)
	}
	defer uploads.Close()

	jobDescription, err := h.extractor.ExtractText(uploads.docs[0])
	if err != nil {
		h.log.Warn("job description extraction failed", zap.String("file", header.Filename), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result := h.student.Analyze(c.UserContext(), profile, jobDescription)
	return c.JSON(result)
}

func uploadError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errFileTooLarge) {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
