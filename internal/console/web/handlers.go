package web

import (
	"net/http"

	"github.com/medcore/clinic-console/internal/console"
	"github.com/medcore/clinic-console/internal/medcore"
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// --- positions ---

func (s *Server) handlePositionsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")

	var table *console.Table
	var listErr error
	notice := s.operate(func() {
		table, listErr = s.positions.List(r.Context(), name)
	})
	if listErr != nil {
		s.logger.Error("positions page list failed", "error", listErr)
	}

	form := &console.PositionForm{}
	if edit := q.Get("edit"); edit != "" {
		if id, err := parseID(edit); err == nil {
			if filled, err := s.positions.Fill(id); err == nil {
				form = filled
			}
		}
	}

	s.render(w, "positions.html", &pageData{
		Title:  "Positions",
		Active: "positions",
		Flash:  firstNonEmpty(q.Get("flash"), notice),
		Table:  table,
		Query:  map[string]string{"name": name},
		Form:   form,
	})
}

func (s *Server) handlePositionsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := console.PositionForm{
		ID:          r.FormValue("id"),
		Name:        r.FormValue("name"),
		Salary:      r.FormValue("salary"),
		Description: r.FormValue("description"),
	}
	flash := s.operate(func() {
		_ = s.positions.Save(r.Context(), form)
	})
	redirect(w, r, "/positions", flash)
}

func (s *Server) handlePositionsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	flash := s.operate(func() {
		_ = s.positions.Delete(r.Context(), id, formConfirmer{r})
	})
	redirect(w, r, "/positions", flash)
}

// --- employees ---

func (s *Server) handleEmployeesPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, taxID := q.Get("name"), q.Get("tax_id")

	var table *console.Table
	var listErr error
	notice := s.operate(func() {
		table, listErr = s.employees.List(r.Context(), name, taxID)
	})
	if listErr != nil {
		s.logger.Error("employees page list failed", "error", listErr)
	}

	options, err := s.employees.PositionOptions(r.Context())
	if err != nil {
		s.logger.Error("employees page options failed", "error", err)
	}

	form := &console.EmployeeForm{}
	if edit := q.Get("edit"); edit != "" {
		if id, err := parseID(edit); err == nil {
			if filled, err := s.employees.Fill(id); err == nil {
				form = filled
			}
		}
	}

	s.render(w, "employees.html", &pageData{
		Title:     "Employees",
		Active:    "employees",
		Flash:     firstNonEmpty(q.Get("flash"), notice),
		Table:     table,
		Query:     map[string]string{"name": name, "tax_id": taxID},
		Form:      form,
		Positions: options,
	})
}

func (s *Server) handleEmployeesSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := console.EmployeeForm{
		ID:         r.FormValue("id"),
		Name:       r.FormValue("name"),
		TaxID:      r.FormValue("tax_id"),
		BirthDate:  r.FormValue("birth_date"),
		Address:    r.FormValue("address"),
		Email:      r.FormValue("email"),
		Phone:      r.FormValue("phone"),
		PositionID: r.FormValue("position_id"),
	}
	flash := s.operate(func() {
		_ = s.employees.Save(r.Context(), form)
	})
	redirect(w, r, "/employees", flash)
}

func (s *Server) handleEmployeesDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	flash := s.operate(func() {
		_ = s.employees.Delete(r.Context(), id, formConfirmer{r})
	})
	redirect(w, r, "/employees", flash)
}

// --- patients ---

func (s *Server) handlePatientsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, taxID := q.Get("name"), q.Get("tax_id")

	var table *console.Table
	var listErr error
	notice := s.operate(func() {
		table, listErr = s.patients.List(r.Context(), name, taxID)
	})
	if listErr != nil {
		s.logger.Error("patients page list failed", "error", listErr)
	}

	form := &console.PatientForm{}
	if edit := q.Get("edit"); edit != "" {
		if id, err := parseID(edit); err == nil {
			if filled, err := s.patients.Fill(r.Context(), id); err == nil {
				form = filled
			}
		}
	}

	s.render(w, "patients.html", &pageData{
		Title:  "Patients",
		Active: "patients",
		Flash:  firstNonEmpty(q.Get("flash"), notice),
		Table:  table,
		Query:  map[string]string{"name": name, "tax_id": taxID},
		Form:   form,
	})
}

func (s *Server) handlePatientsSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := console.PatientForm{
		ID:              r.FormValue("id"),
		Name:            r.FormValue("name"),
		TaxID:           r.FormValue("tax_id"),
		BirthDate:       r.FormValue("birth_date"),
		Phone:           r.FormValue("phone"),
		Email:           r.FormValue("email"),
		Procedure:       r.FormValue("procedure"),
		AppointmentDate: r.FormValue("appointment_date"),
		AppointmentTime: r.FormValue("appointment_time"),
	}
	flash := s.operate(func() {
		_ = s.patients.Save(r.Context(), form)
	})
	redirect(w, r, "/patients", flash)
}

func (s *Server) handlePatientsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	flash := s.operate(func() {
		_ = s.patients.Delete(r.Context(), id, formConfirmer{r})
	})
	redirect(w, r, "/patients", flash)
}

// --- appointments ---

func (s *Server) handleAppointmentsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	patient, procedure := q.Get("patient"), q.Get("procedure")

	var table *console.Table
	var listErr error
	notice := s.operate(func() {
		table, listErr = s.appointments.List(r.Context(), patient, procedure)
	})
	if listErr != nil {
		s.logger.Error("appointments page list failed", "error", listErr)
	}

	s.render(w, "appointments.html", &pageData{
		Title:    "Appointments",
		Active:   "appointments",
		Flash:    firstNonEmpty(q.Get("flash"), notice),
		Table:    table,
		Query:    map[string]string{"patient": patient, "procedure": procedure},
		Statuses: medcore.Statuses,
	})
}

func (s *Server) handleAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	status := medcore.Status(r.FormValue("status"))
	flash := s.operate(func() {
		if err := s.appointments.SetStatus(r.Context(), id, status); err == nil {
			s.notice.Notify("Appointment status updated.")
		}
	})
	redirect(w, r, "/appointments", flash)
}

func (s *Server) handleAppointmentDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	flash := s.operate(func() {
		_ = s.appointments.Delete(r.Context(), id, formConfirmer{r})
	})
	redirect(w, r, "/appointments", flash)
}
