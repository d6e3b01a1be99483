package jobs

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/KkaushikK18/Job-Portal/internal/auth"
)

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createJobRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	title := strings.TrimSpace(body.Title)
	company := strings.TrimSpace(body.Company)
	location := strings.TrimSpace(body.Location)
	description := strings.TrimSpace(body.Description)

	if title == "" || company == "" || location == "" || description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Please fill in all required fields.")
	}

	job, err := h.Store.Create(userContext(c), Job{
		Title:       title,
		Company:     company,
		Location:    location,
		Description: description,
		Salary:      strings.TrimSpace(body.Salary),
	})
	if err != nil {
		log.Printf("jobs: create failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not create job")
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *Handler) List(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	location := strings.TrimSpace(c.Query("location"))

	jobs, err := h.Store.List(userContext(c), query, location)
	if err != nil {
		log.Printf("jobs: list failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not list jobs")
	}

	return c.JSON(jobs)
}

func (h *Handler) Apply(c *fiber.Ctx) error {
	studentID, ok := auth.CallerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body applyRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	// Status is always pending on submission regardless of caller input,
	// and appliedAt is server-assigned.
	app := Application{
		StudentID:    studentID,
		StudentName:  strings.TrimSpace(body.StudentName),
		StudentEmail: strings.TrimSpace(body.StudentEmail),
		CoverLetter:  body.CoverLetter,
		Resume:       strings.TrimSpace(body.Resume),
		AppliedAt:    time.Now().UTC(),
		Status:       StatusPending,
	}

	job, err := h.Store.AppendApplication(userContext(c), c.Params("id"), app)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Job not found")
		}
		log.Printf("jobs: apply failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not apply")
	}

	return c.JSON(applyResponse{Message: "Applied successfully", Job: job})
}

func (h *Handler) UpdateApplicationStatus(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid application index")
	}

	var body updateStatusRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if !ValidStatus(body.Status) {
		return fiber.NewError(fiber.StatusBadRequest, "status must be pending, reviewed, accepted, or rejected")
	}

	ctx := userContext(c)

	job, err := h.Store.GetByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Job not found")
		}
		log.Printf("jobs: load failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not update application")
	}
	if index >= len(job.Applications) {
		return fiber.NewError(fiber.StatusNotFound, "Application not found")
	}

	current := job.Applications[index].Status
	if !CanTransition(current, body.Status) {
		return fiber.NewError(fiber.StatusBadRequest,
			"cannot move application from "+string(current)+" to "+string(body.Status))
	}

	updated, err := h.Store.SetApplicationStatus(ctx, job.ID, index, body.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Application not found")
		}
		log.Printf("jobs: status update failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not update application")
	}

	return c.JSON(updated)
}

func (h *Handler) MyApplications(c *fiber.Ctx) error {
	studentID, ok := auth.CallerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	apps, err := h.Store.ListApplicationsByStudent(userContext(c), studentID)
	if err != nil {
		log.Printf("jobs: list applications failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "could not list applications")
	}

	return c.JSON(apps)
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
