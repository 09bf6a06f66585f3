package limits

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/cantera/pkg/subscription"
)

// resourceNouns are the plural Spanish nouns used in deny reasons.
var resourceNouns = map[subscription.Resource]string{
	subscription.ResourceCanteras:   "canteras",
	subscription.ResourceClientes:   "clientes",
	subscription.ResourceProduccion: "registros de producción",
	subscription.ResourceVentas:     "ventas",
	subscription.ResourceUsuarios:   "usuarios",
}

type messages struct {
	p *message.Printer
}

func newMessages(tag language.Tag) messages {
	return messages{p: message.NewPrinter(tag)}
}

func (m messages) noOrganization() string {
	return m.p.Sprintf("No hay una organización activa asociada a tu cuenta")
}

func (m messages) limitReached(r subscription.Resource, limit int64, plan subscription.PlanID) string {
	noun := resourceNouns[r]
	if r.Monthly() {
		return m.p.Sprintf("Has alcanzado el límite de %d %s este mes en el plan %s", limit, noun, plan.DisplayName())
	}
	return m.p.Sprintf("Has alcanzado el límite de %d %s del plan %s", limit, noun, plan.DisplayName())
}
