package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmontufar/cine-reservas/internal/config"
	"github.com/rmontufar/cine-reservas/internal/repository"
	"github.com/rmontufar/cine-reservas/internal/utils"
)

// AuthHandler bundles dependencies for user registration and login.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

type registerReq struct {
	Name     string `json:"nombre"`
	Password string `json:"contrasena"`
	Email    string `json:"correo"`
	Phone    string `json:"telefono"`
	Role     string `json:"rol"`
}

type loginReq struct {
	Name     string `json:"nombre"`
	Password string `json:"contrasena"`
}

// Register handles POST /usuarios. The password is stored as a bcrypt
// hash; the role defaults to "usuario" when absent or unknown.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Password == "" || req.Email == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != "administrador" {
		role = "usuario"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Password, req.Email, req.Phone, role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrNameExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "nombre ya registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al insertar usuario"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Usuario agregado", "id": uid})
}

// Login handles POST /login. It verifies the password against the
// stored bcrypt hash and returns a signed access token with the user's
// role.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByName(ctx, req.Name)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"mensaje": "Usuario no registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}
	if !utils.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"mensaje": "Contraseña incorrecta"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Name, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error en el servidor"})
	}
	return c.JSON(http.StatusOK, echo.Map{"mensaje": "Bienvenido", "token": access.Token, "rol": u.Role})
}

// UpdateUser handles PUT /usuarios/:id_usuario. The password is changed
// only when contrasena is present in the body; the role falls back to
// "usuario" for unknown values, like Register.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id_usuario")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Faltan datos requeridos"})
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != "administrador" {
		role = "usuario"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Update(ctx, id, req.Name, req.Email, req.Phone, role, req.Password, h.Cfg.BcryptCost); err != nil {
		switch err {
		case repository.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuario no encontrado"})
		case repository.ErrNameExists:
			return c.JSON(http.StatusConflict, echo.Map{"error": "nombre ya registrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al actualizar usuario"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Usuario actualizado"})
}

// DeleteUser handles DELETE /usuarios/:id_usuario.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id_usuario")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al eliminar usuario"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Usuario eliminado"})
}

// ListUsers handles GET /usuarios.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error al obtener los usuarios"})
	}
	return c.JSON(http.StatusOK, users)
}
