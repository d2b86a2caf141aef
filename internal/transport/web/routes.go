package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/avstrong/orderform/internal/form"
	"github.com/avstrong/orderform/internal/order"
	"github.com/avstrong/orderform/internal/picker"
	"github.com/avstrong/orderform/internal/submission"
	"github.com/avstrong/orderform/internal/transport/formpost"
)

const (
	maxInboxMemory = 1 << 20
	maxInboxBody   = 4 << 20
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, messageResponse{Message: msg})
}

func (s *Server) getFormHandler(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, newFormView(s.form.Snapshot()))
}

func (s *Server) toggleOptionHandler(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Selected == nil {
		s.writeMessage(w, http.StatusBadRequest, `provide {"selected": true|false}`)

		return
	}

	if err := s.form.Toggle(r.PathValue("id"), *req.Selected); err != nil {
		s.writeMutationError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, newFormView(s.form.Snapshot()))
}

func (s *Server) setRangeHandler(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeMessage(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))

		return
	}

	from, err := parseDate(req.From)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "from must be a YYYY-MM-DD date")

		return
	}

	to, err := parseDate(req.To)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "to must be a YYYY-MM-DD date")

		return
	}

	if err := s.form.PickRange(r.PathValue("id"), from, to); err != nil {
		s.writeMutationError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, newFormView(s.form.Snapshot()))
}

func (s *Server) writeMutationError(w http.ResponseWriter, err error) {
	if dateErr := picker.IsDateError(err); dateErr != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, dateErr.Fields())

		return
	}

	switch {
	case errors.Is(err, order.ErrUnknownOption):
		s.writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, form.ErrConfirmationShown):
		s.writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrNotSelected),
		errors.Is(err, order.ErrNotPerNight),
		errors.Is(err, order.ErrInvertedRange):
		s.writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.l.LogErrorf("Could not update the form: %v", err.Error())
		s.writeMessage(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	var customer order.Customer

	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		s.writeMessage(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))

		return
	}

	outcome, err := s.form.Submit(r.Context(), customer)
	if inputErr := order.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

		return
	}

	switch {
	case errors.Is(err, submission.ErrInFlight),
		errors.Is(err, submission.ErrAlreadySubmitted),
		errors.Is(err, form.ErrConfirmationShown):
		s.writeMessage(w, http.StatusConflict, err.Error())

		return
	case errors.Is(err, submission.ErrTransport):
		s.writeMessage(w, http.StatusBadGateway, form.FailureMessage)

		return
	case err != nil:
		s.l.LogErrorf("Could not submit the application: %v", err.Error())
		s.writeMessage(w, http.StatusInternalServerError, form.FailureMessage)

		return
	}

	s.writeJSON(w, http.StatusOK, submitResponse{
		ID:      outcome.Payload.ID,
		View:    form.ViewConfirmation,
		Summary: outcome.Payload.Summary,
	})
}

func (s *Server) resetHandler(w http.ResponseWriter, _ *http.Request) {
	if err := s.form.Reset(); err != nil {
		s.writeMessage(w, http.StatusConflict, err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// inboxHandler is the local form backend: it accepts the multipart submission,
// logs it and redirects like a hosted form service would.
func (s *Server) inboxHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInboxBody)

	if err := r.ParseMultipartForm(maxInboxMemory); err != nil {
		status := http.StatusBadRequest

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		http.Error(w, http.StatusText(status), status)

		return
	}

	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.l.LogWarnf("Could not remove inbox upload files: %v", err.Error())
		}
	}()

	var payload order.Payload

	if err := json.Unmarshal([]byte(r.FormValue(formpost.PayloadField)), &payload); err != nil || payload.ID == "" {
		http.Error(w, "payload field is missing or malformed", http.StatusBadRequest)

		return
	}

	s.l.LogInfo(
		"type: inbox, application: %s, customer: %s, options: %d, total: %.2f %s, submittedAt: %s",
		payload.ID,
		payload.Customer.Email,
		len(payload.Options),
		payload.Summary.TotalAmount,
		payload.Summary.Currency,
		payload.SubmittedAt,
	)

	http.Redirect(w, r, "/api/form/v1", http.StatusSeeOther)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		r.Handle(pattern, s.applyMiddlewares(h, s.recoverMiddleware(), s.loggerMiddleware()))
	}

	handle("GET /api/form/v1", s.getFormHandler)
	handle("PUT /api/form/v1/options/{id}", s.toggleOptionHandler)
	handle("PUT /api/form/v1/options/{id}/range", s.setRangeHandler)
	handle("POST /api/form/v1/submit", s.submitHandler)
	handle("POST /api/form/v1/reset", s.resetHandler)
	handle(fmt.Sprintf("GET %s", s.conf.LivenessEndpoint), s.livenessHandler)

	if s.conf.Inbox {
		handle("POST /{$}", s.inboxHandler)
	}
}
