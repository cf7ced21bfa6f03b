package handlers

import (
	"net/http"
	"time"

	"github.com/kmarzh/scrim-scoreboard/models"
	"github.com/kmarzh/scrim-scoreboard/services"
	"github.com/kmarzh/scrim-scoreboard/utils"
)

const (
	staffTokenTTL = 12 * time.Hour
	teamTokenTTL  = 48 * time.Hour
)

type AuthHandler struct {
	authService services.AuthService
	teamService services.TeamService
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, teamService services.TeamService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		teamService: teamService,
		jwtSecret:   []byte(jwtSecret),
	}
}

type staffLoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *AuthHandler) StaffLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req staffLoginRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	manager, err := h.authService.StaffLogin(r.Context(), req.Login, req.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := utils.GenerateJWT(h.jwtSecret, manager.ID, string(manager.Role), staffTokenTTL)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "manager": manager.Public()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type teamLoginRequest struct {
	AccessCode string                     `json:"access_code"`
	Identity   *services.TeamIdentityInput `json:"identity,omitempty"`
}

func (h *AuthHandler) TeamLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req teamLoginRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.authService.TeamLogin(r.Context(), req.AccessCode)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// First login may carry the optional identity fields.
	if req.Identity != nil {
		team, err = h.teamService.FillIdentity(r.Context(), team.AccessCode, *req.Identity)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}

	token, err := utils.GenerateJWT(h.jwtSecret, team.AccessCode, string(models.RoleTeam), teamTokenTTL)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) CreateManagerHandler(w http.ResponseWriter, r *http.Request) {
	var input services.CreateManagerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	manager, err := h.authService.CreateManager(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"manager": manager.Public()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) ListManagersHandler(w http.ResponseWriter, r *http.Request) {
	managers := h.authService.ListManagers(r.Context())
	public := make([]models.PublicManager, len(managers))
	for i, m := range managers {
		public[i] = m.Public()
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"managers": public}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
