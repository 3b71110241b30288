package model

// DashboardStats aggregates the figures shown on the admin landing page.
type DashboardStats struct {
	AppointmentsToday     int     `db:"appointments_today" json:"appointments_today"`
	AppointmentsScheduled int     `db:"appointments_scheduled" json:"appointments_scheduled"`
	AppointmentsConfirmed int     `db:"appointments_confirmed" json:"appointments_confirmed"`
	AppointmentsCompleted int     `db:"appointments_completed" json:"appointments_completed"`
	AppointmentsCancelled int     `db:"appointments_cancelled" json:"appointments_cancelled"`
	NewPatientsThisMonth  int     `db:"new_patients_this_month" json:"new_patients_this_month"`
	ActivePatients        int     `db:"active_patients" json:"active_patients"`
	OutstandingAmount     float64 `db:"outstanding_amount" json:"outstanding_amount"`
	RevenueThisMonth      float64 `db:"revenue_this_month" json:"revenue_this_month"`
}
