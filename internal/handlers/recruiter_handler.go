package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"glauniversity/ats-matcher/internal/models"
	"glauniversity/ats-matcher/internal/repositories"
	"glauniversity/ats-matcher/internal/services"
)

type RecruiterHandler struct {
	ranking     services.RankingService
	extractor   services.TextExtractor
	runs        repositories.RankingRepository
	storage     services.StorageService
	maxFileSize int64
	defaultTopN int
	maxResumes  int
	log         *zap.Logger
}

// NewRecruiterHandler builds the recruiter endpoints. runs and storage may be
// nil, which disables history and archiving respectively.
func NewRecruiterHandler(
	ranking services.RankingService,
	extractor services.TextExtractor,
	runs repositories.RankingRepository,
	storage services.StorageService,
	maxFileSize int64,
	defaultTopN int,
	maxResumes int,
	log *zap.Logger,
) *RecruiterHandler {
	return &RecruiterHandler{
		ranking:     ranking,
		extractor:   extractor,
		runs:        runs,
		storage:     storage,
		maxFileSize: maxFileSize,
		defaultTopN: defaultTopN,
		maxResumes:  maxResumes,
		log:         log,
	}
}

func (h *RecruiterHandler) HandleRank(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	jdFiles := form.File["job_description"]
	if len(jdFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please upload a job description file as 'job_description'.",
		})
	}

	resumeFiles := form.File["resumes"]
	if len(resumeFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Please upload at least one resume as 'resumes'.",
		})
	}

	if h.maxResumes > 0 && len(resumeFiles) > h.maxResumes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Too many resumes: %d uploaded, at most %d per request.", len(resumeFiles), h.maxResumes),
		})
	}

	topN := h.defaultTopN
	if raw := strings.TrimSpace(c.FormValue("top_n")); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("top_n must be an integer, got %q", raw),
			})
		}
	}

	jdUpload, err := openUploads(jdFiles[:1], h.maxFileSize)
	if err != nil {
		return uploadError(c, err)
	}
	defer jdUpload.Close()

	resumes, err := openUploads(resumeFiles, h.maxFileSize)
	if err != nil {
		return uploadError(c, err)
	}
	defer resumes.Close()

	jobDescription, err := h.extractor.ExtractText(jdUpload.docs[0])
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to extract text from %s: %v", jdFiles[0].Filename, err),
		})
	}

	result, err := h.ranking.Rank(c.UserContext(), services.RankRequest{
		JobDescription: jobDescription,
		Resumes:        resumes.docs,
		TopN:           topN,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyJobDescription),
			errors.Is(err, services.ErrNoResumes),
			errors.Is(err, services.ErrInvalidTopN):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		default:
			h.log.Warn("ranking aborted", zap.Error(err))
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	response := models.RankResponse{
		JobDescription: jobDescription,
		Results:        result.Entries,
		TopCandidates:  topCandidates(result.Top),
		Warnings:       result.Warnings,
	}

	keys := h.archive(c, resumes.docs)

	if h.runs != nil {
		run := buildRun(CurrentSession(c), jobDescription, topN, result.Entries, keys)
		if err := h.runs.Create(c.UserContext(), run); err != nil {
			h.log.Warn("⚠️ Failed to store ranking run", zap.Error(err))
			h.discard(c, keys)
		} else {
			response.RunID = &run.ID
		}
	}

	return c.JSON(response)
}

func (h *RecruiterHandler) HandleGetRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid run ID",
		})
	}

	if h.runs == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ranking history is disabled",
		})
	}

	run, err := h.runs.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Ranking run not found",
			})
		}
		return err
	}

	if session := CurrentSession(c); session == nil || session.Username != run.Username {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Ranking run not found",
		})
	}

	return c.JSON(run)
}

// archive stores every resume and returns the keys by upload index. A failed
// upload leaves an empty key.
func (h *RecruiterHandler) archive(c *fiber.Ctx, docs []models.Document) []string {
	keys := make([]string, len(docs))
	if h.storage == nil {
		return keys
	}

	for i, doc := range docs {
		key, err := h.storage.Save(c.UserContext(), doc, "resumes")
		if err != nil {
			h.log.Warn("⚠️ Failed to archive resume", zap.String("file", doc.Filename), zap.Error(err))
			continue
		}
		keys[i] = key
	}

	return keys
}

// discard removes archived resumes that no stored run refers to.
func (h *RecruiterHandler) discard(c *fiber.Ctx, keys []string) {
	if h.storage == nil {
		return
	}

	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := h.storage.Delete(c.UserContext(), key); err != nil {
			h.log.Warn("⚠️ Failed to delete archived resume", zap.String("key", key), zap.Error(err))
		}
	}
}

func buildRun(session *models.Session, jobDescription string, topN int, entries []models.ResumeEntry, keys []string) *models.RankingRun {
	run := &models.RankingRun{
		JobDescription: jobDescription,
		TopN:           topN,
		Resumes:        make([]models.RankedResume, 0, len(entries)),
	}
	if session != nil {
		run.Username = session.Username
	}

	for _, entry := range entries {
		resume := models.RankedResume{
			Filename:   entry.Filename,
			MatchScore: entry.MatchScore,
		}
		if key := keys[entry.UploadIndex]; key != "" {
			resume.StorageKey = &key
		}
		run.Resumes = append(run.Resumes, resume)
	}

	return run
}

func topCandidates(entries []models.ResumeEntry) []models.TopCandidate {
	top := make([]models.TopCandidate, 0, len(entries))
	for _, entry := range entries {
		top = append(top, models.TopCandidate{
			Filename:   entry.Filename,
			MatchScore: entry.MatchScore,
			Display:    fmt.Sprintf("%.2f%%", entry.MatchScore),
		})
	}
	return top
}
