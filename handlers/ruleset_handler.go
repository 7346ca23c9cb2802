package handlers

import (
	"net/http"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type RulesetHandler struct {
	rulesetService services.RulesetService
}

func NewRulesetHandler(rs services.RulesetService) *RulesetHandler {
	return &RulesetHandler{rulesetService: rs}
}

// CreateRuleset godoc
// @Summary Create a ruleset
// @Tags rulesets
// @Accept json
// @Produce json
// @Param body body models.Ruleset true "best_of_sets, points_to_win_set, win_by_two, scoring_win_points"
// @Success 201 {object} models.Ruleset
// @Failure 422 {object} map[string]string
// @Router /rulesets [post]
func (h *RulesetHandler) CreateRuleset(w http.ResponseWriter, r *http.Request) {
	var input models.Ruleset
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rs, err := h.rulesetService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, rs, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRuleset godoc
// @Summary Get a ruleset
// @Tags rulesets
// @Produce json
// @Param rulesetID path int true "Ruleset ID"
// @Success 200 {object} models.Ruleset
// @Failure 404 {object} map[string]string
// @Router /rulesets/{rulesetID} [get]
func (h *RulesetHandler) GetRuleset(w http.ResponseWriter, r *http.Request) {
	rulesetID, err := getIDFromURL(r, "rulesetID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rs, err := h.rulesetService.Get(r.Context(), rulesetID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, rs, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
