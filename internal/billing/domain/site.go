package billing

// Unit is a physical unit of a site with its allocation weights.
type Unit struct {
	ID          string  `json:"id" yaml:"id"`
	Block       string  `json:"block" yaml:"block"`
	Floor       int     `json:"floor" yaml:"floor"`
	Number      string  `json:"number" yaml:"number"`
	SquareMeter float64 `json:"square_meter" yaml:"square_meter"`
	LandShare   float64 `json:"land_share" yaml:"land_share"`
	TenantID    string  `json:"tenant_id" yaml:"tenant_id"`
}

// TenantName is the display name printed on the unit's invoices.
func (u Unit) TenantName() string {
	return "Sakin " + u.Number
}

// Site is the static registry of units billed together.
type Site struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Roles []string `json:"roles" yaml:"roles"`
	Units []Unit   `json:"units" yaml:"units"`
}

// DemoSite returns the seed site used when no site file is configured.
func DemoSite() Site {
	return Site{
		ID:    "demo-site",
		Name:  "Demo Sitesi",
		Roles: []string{"superadmin", "site_yoneticisi", "muhasebe", "personel", "sakin"},
		Units: []Unit{
			{ID: "unit-1", Block: "A", Floor: 1, Number: "1", SquareMeter: 110, LandShare: 10, TenantID: "tenant-1"},
			{ID: "unit-2", Block: "A", Floor: 2, Number: "2", SquareMeter: 95, LandShare: 8, TenantID: "tenant-2"},
		},
	}
}

// Clone returns a deep copy so callers cannot mutate the registry.
func (s Site) Clone() Site {
	out := s
	out.Roles = append([]string(nil), s.Roles...)
	out.Units = append([]Unit(nil), s.Units...)
	return out
}
