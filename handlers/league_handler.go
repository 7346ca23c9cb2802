package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
	matchService  services.MatchService
}

func NewLeagueHandler(ls services.LeagueService, ms services.MatchService) *LeagueHandler {
	return &LeagueHandler{
		leagueService: ls,
		matchService:  ms,
	}
}

type scheduleRequest struct {
	TeamIDs []int `json:"team_ids"`
}

// CreateSeason godoc
// @Summary Create a season
// @Tags seasons
// @Accept json
// @Produce json
// @Param body body services.CreateSeasonInput true "Season name, start, end and mode"
// @Success 201 {object} models.Season
// @Failure 400 {object} map[string]string
// @Router /seasons [post]
func (h *LeagueHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSeasonInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	season, err := h.leagueService.CreateSeason(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, season, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateLeague godoc
// @Summary Create a league inside a season
// @Tags leagues
// @Accept json
// @Produce json
// @Param body body services.CreateLeagueInput true "Season id, name and optional ruleset id"
// @Success 201 {object} models.League
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string "Season or ruleset not found"
// @Router /leagues [post]
func (h *LeagueHandler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var input services.CreateLeagueInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Name == "" {
		badRequestResponse(w, r, errors.New("league name is required"))
		return
	}

	league, err := h.leagueService.CreateLeague(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, league, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetLeague godoc
// @Summary Get a league
// @Tags leagues
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {object} models.League
// @Failure 404 {object} map[string]string
// @Router /leagues/{leagueID} [get]
func (h *LeagueHandler) GetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	league, err := h.leagueService.GetLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, league, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Schedule godoc
// @Summary Generate the double round robin schedule of a league
// @Description Without a body (or with empty team_ids) every registered team is scheduled.
// @Tags leagues
// @Accept json
// @Produce json
// @Param leagueID path int true "League ID"
// @Param body body scheduleRequest false "Optional roster"
// @Success 201 {array} models.Match
// @Failure 400 {object} map[string]string "Fewer than two teams"
// @Failure 404 {object} map[string]string
// @Router /leagues/{leagueID}/schedule [post]
func (h *LeagueHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input scheduleRequest
	if err := readJSON(w, r, &input); err != nil && !errors.Is(err, errEmptyBody) {
		badRequestResponse(w, r, err)
		return
	}

	matches, err := h.leagueService.Schedule(r.Context(), leagueID, input.TeamIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatches godoc
// @Summary List the fixtures of a league
// @Tags leagues
// @Produce json
// @Param leagueID path int true "League ID"
// @Param status query string false "scheduled, played or confirmed"
// @Success 200 {array} models.Match
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /leagues/{leagueID}/matches [get]
func (h *LeagueHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.MatchStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.MatchStatus(raw)
		status = &s
	}

	matches, err := h.matchService.ListByLeague(r.Context(), leagueID, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if matches == nil {
		matches = []*models.Match{}
	}

	if err := writeJSON(w, http.StatusOK, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandings godoc
// @Summary Get the league table
// @Tags standings
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 200 {array} models.Standing
// @Failure 404 {object} map[string]string
// @Router /leagues/{leagueID}/standings [get]
func (h *LeagueHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.writeStandings(w, r, leagueID)
}

// GetStandingsByQuery godoc
// @Summary Get the league table by query parameter
// @Tags standings
// @Produce json
// @Param leagueId query int true "League ID"
// @Success 200 {array} models.Standing
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /standings [get]
func (h *LeagueHandler) GetStandingsByQuery(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("leagueId")
	if raw == "" {
		badRequestResponse(w, r, errors.New("leagueId query parameter is required"))
		return
	}
	leagueID, err := parseID("leagueId", raw)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	h.writeStandings(w, r, leagueID)
}

func (h *LeagueHandler) writeStandings(w http.ResponseWriter, r *http.Request, leagueID int) {
	table, err := h.leagueService.Standings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, table, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PublishStandings godoc
// @Summary Publish a standings snapshot to object storage
// @Tags standings
// @Produce json
// @Param leagueID path int true "League ID"
// @Success 201 {object} services.PublishedStandings
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string "Publishing not configured"
// @Router /leagues/{leagueID}/standings/publish [post]
func (h *LeagueHandler) PublishStandings(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	snapshot, err := h.leagueService.PublishStandings(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, snapshot, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
