package handlers

// HandlerBundle groups the endpoint handlers the router mounts.
type HandlerBundle struct {
	Appointments *AppointmentHandler
	Patients     *PatientHandler
	Auth         *AuthHandler
}
