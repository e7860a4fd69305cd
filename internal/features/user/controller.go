package user

import (
	"strconv"

	common_models "go-approvals/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	Service UserService
}

func NewUserController(service UserService) *UserController {
	return &UserController{Service: service}
}

// CreateUser godoc
// @Summary Create an approver
// @Description Register an approver identity (name + email)
// @Tags users
// @Accept json
// @Produce json
// @Param user body models.User true "User"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]interface{}
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *fiber.Ctx) error {
	var input common_models.User
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := c.Service.CreateUser(ctx.UserContext(), &input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(input)
}

// GetUser godoc
// @Summary Get an approver
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]interface{}
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	user, err := c.Service.GetApprover(ctx.UserContext(), id)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(user)
}

// ListUsers godoc
// @Summary List approvers
// @Tags users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.User
// @Failure 500 {object} map[string]interface{}
// @Router /api/users [get]
func (c *UserController) ListUsers(ctx *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(ctx.Query("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(ctx.Query("offset", "0"), 10, 64)

	users, err := c.Service.ListUsers(ctx.UserContext(), limit, offset)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(users)
}
