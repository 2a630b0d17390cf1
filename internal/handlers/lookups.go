package handlers

import (
	"net/http"
	"strconv"
	"strings"

	applog "penside/internal/log"
	"penside/models"
)

// LotsResource serves /api/lots and /api/lots/{id}/pens.
func LotsResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if repo == nil || finder == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/lots")
	path = strings.Trim(path, "/")

	if path == "" {
		lots, err := repo.ListLots(r.Context())
		if err != nil {
			writeLifecycleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, lots)
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil || len(segments) != 2 || segments[1] != "pens" {
		http.NotFound(w, r)
		return
	}

	pens, err := finder.ListPensForLot(r.Context(), uint(idValue))
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pens)
}

// DiagnosesResource serves /api/diagnoses and /api/diagnoses/{id}/treatments.
// Only treatments linked to the diagnosis are offered.
func DiagnosesResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if repo == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/diagnoses")
	path = strings.Trim(path, "/")

	if path == "" {
		diagnoses, err := repo.ListDiagnoses(r.Context())
		if err != nil {
			writeLifecycleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, diagnoses)
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil || len(segments) != 2 || segments[1] != "treatments" {
		http.NotFound(w, r)
		return
	}

	treatments, err := repo.ListTreatmentsForDiagnosis(r.Context(), uint(idValue))
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}
	applog.Debug(r.Context(), "treatments listed for diagnosis", "diagnosisID", idValue, "count", len(treatments))
	writeJSON(w, http.StatusOK, treatments)
}

// DeathReasons serves the fixed cause-of-death list the death form offers.
func DeathReasons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, models.DeathReasons)
}
