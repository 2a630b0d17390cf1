package handlers

import (
	"net/http"

	"penside/internal/herd"
	"penside/models"
)

type treatmentRequest struct {
	DiagnosisID     uint     `json:"diagnosis_id"`
	TreatmentID     uint     `json:"treatment_id"`
	TreatmentPerson string   `json:"treatment_person"`
	CurrentWeight   *float64 `json:"current_weight"`
	Severity        string   `json:"severity"`
	Date            string   `json:"date"`
	MoveToPenID     uint     `json:"move_to_pen_id"`
}

type treatmentResponse struct {
	Animal animalResponse          `json:"animal"`
	Record *models.TreatmentRecord `json:"record"`
}

func recordTreatment(w http.ResponseWriter, r *http.Request, animalID uint) {
	var req treatmentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	date, ok := parseEventDate(req.Date)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid date")
		return
	}

	person := req.TreatmentPerson
	if person == "" {
		person = currentUserName(r)
	}

	result, err := manager.Treat(r.Context(), animalID, herd.TreatmentForm{
		DiagnosisID:     req.DiagnosisID,
		TreatmentID:     req.TreatmentID,
		TreatmentPerson: person,
		CurrentWeight:   req.CurrentWeight,
		Severity:        models.Severity(req.Severity),
		Date:            date,
		MoveToPenID:     req.MoveToPenID,
	})
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, treatmentResponse{
		Animal: projectAnimal(*result.Animal),
		Record: result.Record,
	})
}

type deathRequest struct {
	Reason   string `json:"reason"`
	Necropsy bool   `json:"necropsy"`
	Date     string `json:"death_date"`
	PhotoURL string `json:"photo_url"`
}

type deathResponse struct {
	Animal  animalResponse      `json:"animal"`
	Record  *models.DeathRecord `json:"record"`
	Amended bool                `json:"amended"`
}

func recordDeath(w http.ResponseWriter, r *http.Request, animalID uint) {
	var req deathRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	date, ok := parseEventDate(req.Date)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid date")
		return
	}

	result, err := manager.RecordDeath(r.Context(), animalID, herd.DeathForm{
		Reason:   models.DeathReason(req.Reason),
		Necropsy: req.Necropsy,
		Date:     date,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Amended {
		status = http.StatusOK
	}
	writeJSON(w, status, deathResponse{
		Animal:  projectAnimal(*result.Animal),
		Record:  result.Record,
		Amended: result.Amended,
	})
}

// showDeathRecord lets the form prefill and warn before an amendment.
func showDeathRecord(w http.ResponseWriter, r *http.Request, animalID uint) {
	record, err := repo.GetDeathRecord(r.Context(), animalID)
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type realizationRequest struct {
	ReasonID uint     `json:"reason_id"`
	Weight   *float64 `json:"weight"`
	Price    *float64 `json:"price"`
	Date     string   `json:"date"`
}

type realizationResponse struct {
	Animal   animalResponse            `json:"animal"`
	Record   *models.RealizationRecord `json:"record"`
	Replayed bool                      `json:"replayed"`
}

func recordRealization(w http.ResponseWriter, r *http.Request, animalID uint) {
	var req realizationRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	date, ok := parseEventDate(req.Date)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid date")
		return
	}

	result, err := manager.Realize(r.Context(), animalID, herd.RealizeForm{
		ReasonID: req.ReasonID,
		Weight:   req.Weight,
		Price:    req.Price,
		Date:     date,
	})
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, realizationResponse{
		Animal:   projectAnimal(*result.Animal),
		Record:   result.Record,
		Replayed: result.Replayed,
	})
}

func showRealizationRecord(w http.ResponseWriter, r *http.Request, animalID uint) {
	record, err := repo.GetRealizationRecord(r.Context(), animalID)
	if err != nil {
		writeLifecycleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
