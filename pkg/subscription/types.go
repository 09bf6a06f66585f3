package subscription

// Resource is a countable tenant resource bounded by a plan cap.
type Resource string

const (
	ResourceCanteras   Resource = "canteras"
	ResourceClientes   Resource = "clientes"
	ResourceProduccion Resource = "produccion" // per calendar month
	ResourceVentas     Resource = "ventas"     // per calendar month
	ResourceUsuarios   Resource = "usuarios"
)

// Monthly reports whether the cap of r applies to the current calendar
// month rather than to the all-time total.
func (r Resource) Monthly() bool {
	return r == ResourceProduccion || r == ResourceVentas
}

// Feature is a boolean plan capability.
type Feature string

const (
	FeatureExportPDF         Feature = "exportacion_pdf"
	FeatureExportExcel       Feature = "exportacion_excel"
	FeatureReportesAvanzados Feature = "reportes_avanzados"
	FeatureAPI               Feature = "api"
	FeatureIntegraciones     Feature = "integraciones"
)

// Unlimited is the cap value meaning "no cap applies". It is deliberately
// outside the range of valid finite caps, so 0 keeps meaning "none allowed".
const Unlimited int64 = -1
