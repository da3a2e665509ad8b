package entity

// Location representa una bodega o ubicación física (dato de referencia del host).
type Location struct {
	ID   string
	Name string
}

// WorkOrder representa una orden de trabajo del host; el ledger solo la referencia.
type WorkOrder struct {
	ID   string
	Code string
}
