package rest

import (
	"net/http"
	"strconv"
)

func (ctrl *Controller) CreateAlert(w http.ResponseWriter, r *http.Request) {
	op := "Controller.CreateAlert"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	var req alertRequest
	if !decodeBody(w, r, &req) {
		return
	}

	alert, err := ctrl.alerts.CreateAlert(r.Context(), id, req.Simbolo, req.TargetPrice)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusCreated, createAlertResponse{Message: "Alerta criado com sucesso", ID: alert.ID})
}

func (ctrl *Controller) GetAlerts(w http.ResponseWriter, r *http.Request) {
	op := "Controller.GetAlerts"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	alerts, err := ctrl.alerts.GetAlerts(r.Context(), id)
	if err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, alertsResponse{Alerts: toAlertDTOs(alerts)})
}

func (ctrl *Controller) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	op := "Controller.DeleteAlert"
	id, ok := accountID(w, r, op)
	if !ok {
		return
	}

	alertID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || alertID <= 0 {
		writeMessage(w, http.StatusBadRequest, "Identificador de alerta inválido")
		return
	}

	if err = ctrl.alerts.DeleteAlert(r.Context(), id, alertID); err != nil {
		writeError(w, r, op, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Alerta removido com sucesso"})
}
