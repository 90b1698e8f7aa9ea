package models

const (
	CategorySolarPanels = "solar-panels"
	CategoryInverters   = "inverters"
	CategoryBatteries   = "batteries"
	CategoryControllers = "controllers"
)

// Category is a fixed storefront category.
type Category struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ProductCount int    `json:"productCount"`
}

// Categories lists the catalog categories in display order.
var Categories = []Category{
	{Slug: CategorySolarPanels, Name: "Solar Panels", Description: "Monocrystalline and polycrystalline panels for residential and off-grid systems."},
	{Slug: CategoryInverters, Name: "Inverters", Description: "Pure sine wave and hybrid inverters."},
	{Slug: CategoryBatteries, Name: "Batteries", Description: "Lithium and deep-cycle storage batteries."},
	{Slug: CategoryControllers, Name: "Solar Charge Controllers", Description: "MPPT and PWM charge controllers."},
}

// IsValidCategory reports whether slug names a catalog category.
func IsValidCategory(slug string) bool {
	for _, c := range Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
