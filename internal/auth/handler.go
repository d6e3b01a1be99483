package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Users      UserStore
	Issuer     *Issuer
	BcryptCost int
}

func NewHandler(users UserStore, issuer *Issuer, bcryptCost int) *Handler {
	return &Handler{Users: users, Issuer: issuer, BcryptCost: bcryptCost}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body registerRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Password = strings.TrimSpace(body.Password)
	email := NormalizeEmail(body.Email)

	if body.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}
	if len(body.Password) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}
	if !ValidRole(body.Role) {
		return fiber.NewError(fiber.StatusBadRequest, "role must be student or recruiter")
	}

	ctx := userContext(c)

	if _, err := h.Users.FindByEmail(ctx, email); err == nil {
		return fiber.NewError(fiber.StatusBadRequest, "Email already exists")
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("register: lookup failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}

	hashed, err := HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		log.Printf("register: hash failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}

	user, err := h.Users.Create(ctx, User{
		Name:         body.Name,
		Email:        email,
		PasswordHash: hashed,
		Role:         body.Role,
	})
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return fiber.NewError(fiber.StatusBadRequest, "Email already exists")
		}
		log.Printf("register: insert failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}

	token, err := h.Issuer.Generate(user.ID, user.Role)
	if err != nil {
		log.Printf("register: token failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{Token: token, User: user})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	email := NormalizeEmail(body.Email)
	password := strings.TrimSpace(body.Password)

	ctx := userContext(c)

	// Unknown email and wrong password produce the same response so the
	// caller cannot probe which emails are registered.
	user, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
		}
		log.Printf("login: lookup failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	if !CheckPassword(user.PasswordHash, password) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid email or password")
	}

	token, err := h.Issuer.Generate(user.ID, user.Role)
	if err != nil {
		log.Printf("login: token failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(authResponse{Token: token, User: user})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	uid, ok := CallerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.Users.FindByID(userContext(c), uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		log.Printf("me: lookup failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(user)
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
