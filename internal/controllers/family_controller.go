package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/authctx"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/authz"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/dtos"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/models"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/repositories"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/services"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

type FamilyController struct {
	authService services.AuthService
	users       repositories.UserRepository
	families    repositories.FamilyRepository
}

func NewFamilyController(
	authService services.AuthService,
	users repositories.UserRepository,
	families repositories.FamilyRepository,
) *FamilyController {
	return &FamilyController{
		authService: authService,
		users:       users,
		families:    families,
	}
}

func (c *FamilyController) GetFamily(w http.ResponseWriter, r *http.Request) {
	authCtx := authctx.FromContext(r.Context())
	if err := authz.RequireFamilyMembership(authCtx); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := authz.RequirePermission(authCtx, authz.PermViewFamily); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if authCtx.Family == nil {
		utils.HandleAppError(w, utils.NewNotFoundError("Family not found"))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, authCtx.Family)
}

func (c *FamilyController) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	authCtx := authctx.FromContext(r.Context())
	if err := authz.RequireFamilyMembership(authCtx); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := authz.RequirePermission(authCtx, authz.PermDeleteFamily); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.families.DeleteFamily(r.Context(), *authCtx.User.FamilyID); err != nil {
		utils.HandleAppError(w, utils.NewInfrastructureError("failed to delete family", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Family deleted"})
}

func (c *FamilyController) InviteMember(w http.ResponseWriter, r *http.Request) {
	authCtx := authctx.FromContext(r.Context())
	if err := authz.RequireFamilyMembership(authCtx); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if err := authz.RequirePermission(authCtx, authz.PermManageMembers); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.InviteMemberRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := c.authService.InviteToFamily(
		r.Context(), authCtx.User, authCtx.Family, req.Email, models.Role(req.Role),
	)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Invitation sent"})
}

// RemoveMember lets a user leave the family themselves, or lets a manager
// remove them.
func (c *FamilyController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	authCtx := authctx.FromContext(r.Context())
	if err := authz.RequireFamilyMembership(authCtx); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	targetID, err := uuid.Parse(mux.Vars(r)["userID"])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid user id", nil, err,
		)
		return
	}

	if err := authz.RequireSelfOrPermission(authCtx, targetID, authz.PermManageMembers); err != nil {
		utils.HandleAppError(w, err)
		return
	}

	target, err := c.users.FindUserByID(r.Context(), targetID)
	if err != nil {
		utils.HandleAppError(w, utils.NewInfrastructureError("user lookup failed", err))
		return
	}
	if target == nil || target.FamilyID == nil || *target.FamilyID != *authCtx.User.FamilyID {
		utils.HandleAppError(w, utils.NewNotFoundError("User is not a member of this family"))
		return
	}

	if err := c.users.RemoveUserFromFamily(r.Context(), targetID); err != nil {
		utils.HandleAppError(w, utils.NewInfrastructureError("failed to remove member", err))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Member removed"})
}
