package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// ChallengePhasesHandler returns the relational phase timeline of a legacy
// challenge.
func ChallengePhasesHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		legacyID, err := strconv.ParseInt(vars["legacy_id"], 10, 64)
		if err != nil {
			WriteJSONError(w, "invalid legacy id", http.StatusBadRequest)
			return
		}

		phases, err := deps.Timeline.GetChallengePhases(r.Context(), legacyID)
		if err != nil {
			WriteJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSONResponse(w, phases, http.StatusOK)
	}
}

// PhaseTypesHandler returns the legacy phase type reference list.
func PhaseTypesHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		types, err := deps.Timeline.GetPhaseTypes(r.Context())
		if err != nil {
			WriteJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSONResponse(w, types, http.StatusOK)
	}
}

// UpdatePhaseHandler reschedules one phase of a legacy challenge.
func UpdatePhaseHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		legacyID, err := strconv.ParseInt(vars["legacy_id"], 10, 64)
		if err != nil {
			WriteJSONError(w, "invalid legacy id", http.StatusBadRequest)
			return
		}
		phaseID, err := strconv.ParseInt(vars["phase_id"], 10, 64)
		if err != nil {
			WriteJSONError(w, "invalid phase id", http.StatusBadRequest)
			return
		}

		var req struct {
			ScheduledStartTime time.Time `json:"scheduledStartTime"`
			ScheduledEndTime   time.Time `json:"scheduledEndTime"`
			Duration           int64     `json:"duration"`
			PhaseStatusID      int64     `json:"phaseStatusId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		err = deps.Timeline.UpdatePhase(r.Context(), phaseID, legacyID, req.ScheduledStartTime, req.ScheduledEndTime, req.Duration, req.PhaseStatusID)
		if err != nil {
			WriteJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSONResponse(w, map[string]interface{}{"phaseId": phaseID}, http.StatusOK)
	}
}

// EnableNotificationsHandler turns on timeline notifications for a legacy
// challenge on behalf of the actor named in the body.
func EnableNotificationsHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		legacyID, err := strconv.ParseInt(vars["legacy_id"], 10, 64)
		if err != nil {
			WriteJSONError(w, "invalid legacy id", http.StatusBadRequest)
			return
		}

		var req struct {
			Actor string `json:"actor"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Actor == "" {
			WriteJSONError(w, "actor is required", http.StatusBadRequest)
			return
		}

		if err := deps.Timeline.EnableNotifications(r.Context(), legacyID, req.Actor); err != nil {
			WriteJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		WriteJSONResponse(w, map[string]interface{}{"legacyId": legacyID}, http.StatusOK)
	}
}
