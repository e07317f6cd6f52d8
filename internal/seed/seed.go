// Package seed inserts sample owners and properties into an empty store.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/nepremicnine/internal/model"
	"github.com/erazemk/nepremicnine/internal/store"
)

var owners = []model.Owner{
	{
		Name:     "Juan Pérez",
		Address:  "Calle 123 #45-67, Bogotá",
		Phone:    "+57 300 123 4567",
		Birthday: model.NewDate(1980, time.May, 15),
	},
	{
		Name:     "María García",
		Address:  "Carrera 50 #30-20, Medellín",
		Phone:    "+57 301 987 6543",
		Birthday: model.NewDate(1975, time.August, 22),
	},
	{
		Name:     "Carlos Rodríguez",
		Address:  "Avenida 80 #25-40, Cali",
		Phone:    "+57 302 456 7890",
		Birthday: model.NewDate(1985, time.December, 3),
	},
}

// properties reference owners by index.
var properties = []struct {
	owner int
	model.Property
}{
	{0, model.Property{
		Name:         "Apartamento Moderno Chapinero",
		Address:      "Carrera 13 #85-40, Chapinero, Bogotá",
		Price:        decimal.NewFromInt(450_000_000),
		Image:        "https://images.unsplash.com/photo-1545324418-cc1a3fa10c00?w=500",
		Year:         2020,
		CodeInternal: 100001,
	}},
	{1, model.Property{
		Name:         "Casa Campestre Envigado",
		Address:      "Calle 25 Sur #48-30, Envigado",
		Price:        decimal.NewFromInt(800_000_000),
		Image:        "https://images.unsplash.com/photo-1570129477492-45c003edd2be?w=500",
		Year:         2018,
		CodeInternal: 100002,
	}},
	{1, model.Property{
		Name:         "Oficina Centro Empresarial",
		Address:      "Avenida El Poblado #10-32, Medellín",
		Price:        decimal.NewFromInt(300_000_000),
		Image:        "https://images.unsplash.com/photo-1497366216548-37526070297c?w=500",
		Year:         2019,
		CodeInternal: 100003,
	}},
	{2, model.Property{
		Name:         "Penthouse Vista al Mar",
		Address:      "Bocagrande, Cartagena",
		Price:        decimal.NewFromInt(1_200_000_000),
		Image:        "https://images.unsplash.com/photo-1512917774080-9991f1c4c750?w=500",
		Year:         2021,
		CodeInternal: 100004,
	}},
	{0, model.Property{
		Name:         "Casa Familiar Zona Norte",
		Address:      "Calle 170 #45-20, Bogotá",
		Price:        decimal.NewFromInt(620_000_000),
		Image:        "https://images.unsplash.com/photo-1558618047-3c8c76ca7d13?w=500",
		Year:         2017,
		CodeInternal: 100005,
	}},
}

// Run inserts the sample data if no owners exist yet. It reports whether
// anything was inserted.
func Run(ctx context.Context, ownerStore *store.Owners, propertyStore *store.Properties) (bool, error) {
	existing, err := ownerStore.List(ctx)
	if err != nil {
		return false, fmt.Errorf("checking for existing owners: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	ids := make([]string, len(owners))
	for i, o := range owners {
		if err := ownerStore.Create(ctx, &o); err != nil {
			return false, fmt.Errorf("creating owner %q: %w", o.Name, err)
		}
		ids[i] = o.ID
	}

	for _, sp := range properties {
		p := sp.Property
		p.OwnerID = ids[sp.owner]
		if err := propertyStore.Create(ctx, &p); err != nil {
			return false, fmt.Errorf("creating property %q: %w", p.Name, err)
		}
	}

	return true, nil
}
