package limits

import (
	"strings"

	"github.com/dmitrymomot/cantera/pkg/subscription"
)

// Action is a gated operation.
type Action string

const (
	ActionCreateCantera      Action = "create_cantera"
	ActionAddCliente         Action = "add_cliente"
	ActionRegisterProduccion Action = "register_produccion"
	ActionRegisterVenta      Action = "register_venta"
	ActionAddUser            Action = "add_user"
	ActionExportPDF          Action = "export_pdf"
	ActionExportExcel        Action = "export_excel"
)

var actions = []Action{
	ActionCreateCantera,
	ActionAddCliente,
	ActionRegisterProduccion,
	ActionRegisterVenta,
	ActionAddUser,
	ActionExportPDF,
	ActionExportExcel,
}

// Actions returns every gated action in a stable order.
func Actions() []Action {
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// ParseAction validates a wire action name. Matching is exact apart from
// surrounding whitespace.
func ParseAction(s string) (Action, error) {
	a := Action(strings.TrimSpace(s))
	if !a.IsValid() {
		return "", ErrInvalidAction
	}
	return a, nil
}

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	switch a {
	case ActionCreateCantera, ActionAddCliente, ActionRegisterProduccion, ActionRegisterVenta,
		ActionAddUser, ActionExportPDF, ActionExportExcel:
		return true
	}
	return false
}

// IsCounting reports whether a is decided by comparing usage to a cap.
// The other actions are feature-flag lookups.
func (a Action) IsCounting() bool {
	_, ok := a.Resource()
	return ok
}

// Resource returns the resource counted for a.
func (a Action) Resource() (subscription.Resource, bool) {
	switch a {
	case ActionCreateCantera:
		return subscription.ResourceCanteras, true
	case ActionAddCliente:
		return subscription.ResourceClientes, true
	case ActionRegisterProduccion:
		return subscription.ResourceProduccion, true
	case ActionRegisterVenta:
		return subscription.ResourceVentas, true
	case ActionAddUser:
		return subscription.ResourceUsuarios, true
	}
	return "", false
}

// Feature returns the plan flag consulted for a.
func (a Action) Feature() (subscription.Feature, bool) {
	switch a {
	case ActionExportPDF:
		return subscription.FeatureExportPDF, true
	case ActionExportExcel:
		return subscription.FeatureExportExcel, true
	}
	return "", false
}
