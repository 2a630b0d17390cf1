package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	applog "penside/internal/log"
	"penside/models"
)

const (
	sessionFilterLotKey = "finder:lot_id"
	sessionFilterPenKey = "finder:pen_id"
)

type animalResponse struct {
	ID               uint    `json:"id"`
	VisualTag        string  `json:"visual_tag"`
	Gender           string  `json:"gender"`
	DaysOnFeed       int     `json:"days_on_feed"`
	DaysToShip       int     `json:"days_to_ship"`
	LTDTreatmentCost float64 `json:"ltd_treatment_cost"`
	Pulls            int     `json:"pulls"`
	RePulls          int     `json:"re_pulls"`
	ReTreat          int     `json:"re_treat"`
	EID              string  `json:"animal_eid,omitempty"`
	PenID            *uint   `json:"pen_id,omitempty"`
	PenNumber        string  `json:"pen_number,omitempty"`
	LotID            *uint   `json:"lot_id,omitempty"`
	Status           string  `json:"status"`
}

func projectAnimal(animal models.Animal) animalResponse {
	resp := animalResponse{
		ID:               animal.ID,
		VisualTag:        animal.VisualTag,
		Gender:           string(animal.Gender),
		DaysOnFeed:       animal.DaysOnFeed,
		DaysToShip:       animal.DaysToShip,
		LTDTreatmentCost: animal.LTDTreatmentCost,
		Pulls:            animal.Pulls,
		RePulls:          animal.RePulls,
		ReTreat:          animal.ReTreat,
		EID:              animal.EID,
		PenID:            animal.PenID,
		LotID:            animal.LotID(),
		Status:           string(animal.Status),
	}
	if animal.Pen != nil {
		resp.PenNumber = animal.Pen.PenNumber
	}
	return resp
}

func projectAnimals(animals []models.Animal) []animalResponse {
	responses := make([]animalResponse, 0, len(animals))
	for _, animal := range animals {
		responses = append(responses, projectAnimal(animal))
	}
	return responses
}

type animalListResponse struct {
	Filtered bool             `json:"filtered"`
	LotID    uint             `json:"lot_id,omitempty"`
	PenID    uint             `json:"pen_id,omitempty"`
	Animals  []animalResponse `json:"animals"`
}

// AnimalsIndex lists animals by lot/pen filter. The last-selected filter is
// kept in the session, so a request without query parameters resumes where
// the user left off.
func AnimalsIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if finder == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	query := r.URL.Query()
	lotID := uintQueryParam(query.Get("lot_id"))
	penID := uintQueryParam(query.Get("pen_id"))

	if query.Has("lot_id") || query.Has("pen_id") {
		rememberFilter(r, lotID, penID)
	} else {
		lotID, penID = recallFilter(r)
	}

	animals, err := finder.FindByLocation(r.Context(), lotID, penID)
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}

	applog.Debug(r.Context(), "animals listed", "lotID", lotID, "penID", penID, "count", len(animals))
	writeJSON(w, http.StatusOK, animalListResponse{
		Filtered: lotID != 0 || penID != 0,
		LotID:    lotID,
		PenID:    penID,
		Animals:  projectAnimals(animals),
	})
}

type animalSearchResponse struct {
	Animals []animalResponse `json:"animals"`
}

// AnimalSearch resolves animals by EID fragment. All candidates are returned
// so the operator can disambiguate shared fragments.
func AnimalSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if finder == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	matches, err := finder.SearchByEID(r.Context(), r.URL.Query().Get("eid"))
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, animalSearchResponse{Animals: projectAnimals(matches)})
}

// AnimalResource dispatches /api/animals/{id} and its event subresources.
func AnimalResource(w http.ResponseWriter, r *http.Request) {
	if manager == nil || repo == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/animals")
	path = strings.Trim(path, "/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid animal identifier", "identifier", segments[0], "error", err)
		http.NotFound(w, r)
		return
	}
	animalID := uint(idValue)

	if len(segments) == 1 {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		showAnimal(w, r, animalID)
		return
	}

	switch segments[1] {
	case "treatments":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		recordTreatment(w, r, animalID)
	case "death":
		switch r.Method {
		case http.MethodGet:
			showDeathRecord(w, r, animalID)
		case http.MethodPost:
			recordDeath(w, r, animalID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case "realization":
		switch r.Method {
		case http.MethodGet:
			showRealizationRecord(w, r, animalID)
		case http.MethodPost:
			recordRealization(w, r, animalID)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		http.NotFound(w, r)
	}
}

func showAnimal(w http.ResponseWriter, r *http.Request, animalID uint) {
	animal, err := repo.GetAnimal(r.Context(), animalID)
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projectAnimal(*animal))
}

func uintQueryParam(raw string) uint {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

func rememberFilter(r *http.Request, lotID, penID uint) {
	if sessionManager == nil {
		return
	}
	sessionManager.Put(r.Context(), sessionFilterLotKey, int(lotID))
	sessionManager.Put(r.Context(), sessionFilterPenKey, int(penID))
}

func recallFilter(r *http.Request) (uint, uint) {
	if sessionManager == nil {
		return 0, 0
	}
	lotID := sessionManager.GetInt(r.Context(), sessionFilterLotKey)
	penID := sessionManager.GetInt(r.Context(), sessionFilterPenKey)
	if lotID < 0 {
		lotID = 0
	}
	if penID < 0 {
		penID = 0
	}
	return uint(lotID), uint(penID)
}

// parseEventDate accepts the date-only format the forms submit as well as a
// full timestamp. An empty value means "today" and is resolved downstream.
func parseEventDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
