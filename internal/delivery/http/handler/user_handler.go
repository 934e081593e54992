package handler

import (
	"net/http"

	"medical-center/internal/delivery/dto"
	"medical-center/internal/delivery/http/middleware"
	"medical-center/internal/usecase"
	"medical-center/pkg/response"
)

type UserHandler struct {
	userUsecase usecase.UserUsecase
}

func NewUserHandler(userUsecase usecase.UserUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUsecase.GetAll(r.Context())
	if err != nil {
		respondError(w, err, "Failed to get users", nil)
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.userUsecase.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err, "Failed to create user", dto.CreateUserRequest{Identifier: req.Identifier, Privilege: req.Privilege})
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) UpdatePrivilege(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdatePrivilegeRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.userUsecase.UpdatePrivilege(r.Context(), userID, &req)
	if err != nil {
		respondError(w, err, "Failed to update privilege", req)
		return
	}

	response.Success(w, http.StatusOK, "Privilege updated successfully", user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	userID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.userUsecase.Delete(r.Context(), principal, userID); err != nil {
		respondError(w, err, "Failed to delete user", nil)
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}
