package subscription

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlanID identifies a subscription tier.
type PlanID string

// Known plans. Anything else stored in the database resolves to PlanFree.
const (
	PlanFree        PlanID = "free"
	PlanStarter     PlanID = "starter"
	PlanProfesional PlanID = "profesional"
	PlanBusiness    PlanID = "business"
)

// plans lists the tiers from lowest to highest.
var plans = []PlanID{PlanFree, PlanStarter, PlanProfesional, PlanBusiness}

// Plans returns every valid plan ordered from lowest to highest tier.
func Plans() []PlanID {
	out := make([]PlanID, len(plans))
	copy(out, plans)
	return out
}

// ParsePlanID maps a stored plan string to a PlanID. Values outside the
// closed set report ok=false and must be treated as PlanFree by callers.
func ParsePlanID(s string) (PlanID, bool) {
	id := PlanID(strings.ToLower(strings.TrimSpace(s)))
	return id, id.IsValid()
}

// IsValid reports whether p is one of the known plans.
func (p PlanID) IsValid() bool {
	_, ok := catalog[p]
	return ok
}

// String implements fmt.Stringer.
func (p PlanID) String() string { return string(p) }

var titleCaser = cases.Title(language.Spanish)

// DisplayName is the customer-facing plan name ("Profesional").
func (p PlanID) DisplayName() string {
	return titleCaser.String(string(p))
}

// PlanLimits bounds what a tenant on a plan may create or use.
// Caps hold Unlimited when no cap applies.
type PlanLimits struct {
	MaxCanteras          int64 `json:"maxCanteras" yaml:"maxCanteras"`
	MaxClientes          int64 `json:"maxClientes" yaml:"maxClientes"`
	MaxProduccionMensual int64 `json:"maxProduccionMensual" yaml:"maxProduccionMensual"`
	MaxVentasMensual     int64 `json:"maxVentasMensual" yaml:"maxVentasMensual"`
	MaxUsuarios          int64 `json:"maxUsuarios" yaml:"maxUsuarios"`

	ExportacionPDF    bool `json:"exportacionPDF" yaml:"exportacionPDF"`
	ExportacionExcel  bool `json:"exportacionExcel" yaml:"exportacionExcel"`
	ReportesAvanzados bool `json:"reportesAvanzados" yaml:"reportesAvanzados"`
	API               bool `json:"api" yaml:"api"`
	Integraciones     bool `json:"integraciones" yaml:"integraciones"`
}

var catalog = map[PlanID]PlanLimits{
	PlanFree: {
		MaxCanteras:          1,
		MaxClientes:          10,
		MaxProduccionMensual: 50,
		MaxVentasMensual:     50,
		MaxUsuarios:          1,
	},
	PlanStarter: {
		MaxCanteras:          3,
		MaxClientes:          50,
		MaxProduccionMensual: 500,
		MaxVentasMensual:     300,
		MaxUsuarios:          3,
		ExportacionPDF:       true,
	},
	PlanProfesional: {
		MaxCanteras:          10,
		MaxClientes:          200,
		MaxProduccionMensual: 3000,
		MaxVentasMensual:     2000,
		MaxUsuarios:          10,
		ExportacionPDF:       true,
		ExportacionExcel:     true,
		ReportesAvanzados:    true,
	},
	PlanBusiness: {
		MaxCanteras:          Unlimited,
		MaxClientes:          Unlimited,
		MaxProduccionMensual: Unlimited,
		MaxVentasMensual:     Unlimited,
		MaxUsuarios:          Unlimited,
		ExportacionPDF:       true,
		ExportacionExcel:     true,
		ReportesAvanzados:    true,
		API:                  true,
		Integraciones:        true,
	},
}

// GetPlanLimits returns the limits of plan. Unknown plans get the free tier
// so that downstream checks stay defined and restrictive.
func GetPlanLimits(plan PlanID) PlanLimits {
	if l, ok := catalog[plan]; ok {
		return l
	}
	return catalog[PlanFree]
}

// Max returns the cap for r, or 0 for resources the catalog does not know.
func (l PlanLimits) Max(r Resource) int64 {
	switch r {
	case ResourceCanteras:
		return l.MaxCanteras
	case ResourceClientes:
		return l.MaxClientes
	case ResourceProduccion:
		return l.MaxProduccionMensual
	case ResourceVentas:
		return l.MaxVentasMensual
	case ResourceUsuarios:
		return l.MaxUsuarios
	}
	return 0
}

// Has reports whether feature f is enabled. Unknown features are disabled.
func (l PlanLimits) Has(f Feature) bool {
	switch f {
	case FeatureExportPDF:
		return l.ExportacionPDF
	case FeatureExportExcel:
		return l.ExportacionExcel
	case FeatureReportesAvanzados:
		return l.ReportesAvanzados
	case FeatureAPI:
		return l.API
	case FeatureIntegraciones:
		return l.Integraciones
	}
	return false
}

// WithinLimit reports whether one more unit fits: the cap is Unlimited or
// current is strictly below it.
func WithinLimit(current, limit int64) bool {
	return limit == Unlimited || current < limit
}
