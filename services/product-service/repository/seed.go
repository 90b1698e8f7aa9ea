package repository

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/solartech/storefront/services/product-service/models"
)

const placeholderImage = "/placeholder.svg?height=400&width=400"

var (
	seedCategories = []string{models.CategorySolarPanels, models.CategoryInverters, models.CategoryBatteries, models.CategoryControllers}
	seedBrands     = []string{"SolarMax", "PowerTech", "EcoSolar", "GreenEnergy", "SunPower", "Tesla"}
	categoryCodes  = map[string]string{
		models.CategorySolarPanels: "PNL",
		models.CategoryInverters:   "INV",
		models.CategoryBatteries:   "BAT",
		models.CategoryControllers: "CTL",
	}
)

// SeedProducts returns the mock catalog: four hand-written products followed
// by generated products 5 through 50. Generation is deterministic.
func SeedProducts(epoch time.Time) []models.Product {
	products := namedProducts(epoch)
	rng := rand.New(rand.NewPCG(2024, 50))

	for i := 5; i <= 50; i++ {
		category := seedCategories[rng.IntN(len(seedCategories))]
		brand := seedBrands[rng.IntN(len(seedBrands))]
		readable := strings.Replace(category, "-", " ", 1)

		p := models.Product{
			ID:          strconv.Itoa(i),
			Seq:         int64(i),
			Name:        fmt.Sprintf("%s %s Model %d", brand, readable, i),
			Slug:        fmt.Sprintf("%s-%s-%d", strings.ToLower(brand), category, i),
			SKU:         fmt.Sprintf("%s-%s-%03d", strings.ToUpper(brand[:3]), categoryCodes[category], i),
			Description: fmt.Sprintf("High-quality %s with advanced features and reliable performance.", readable),
			Price:       float64(rng.IntN(1000) + 100),
			Image:       placeholderImage,
			Images:      []string{placeholderImage, placeholderImage},
			Category:    category,
			Brand:       brand,
			Rating:      float64(int((rng.Float64()*2+3)*10+0.5)) / 10,
			Reviews:     rng.IntN(200) + 10,
			Featured:    false,
			Features:    []string{"High efficiency design", "Durable construction", "Easy installation", "Long warranty period"},
			Status:      models.StatusActive,
			CreatedAt:   epoch.Add(-time.Duration(i) * 24 * time.Hour),
		}
		if rng.Float64() > 0.7 {
			op := float64(rng.IntN(1200) + 200)
			p.OriginalPrice = &op
		}
		if rng.Float64() > 0.7 {
			d := rng.IntN(30) + 5
			p.Discount = &d
		}
		if rng.Float64() > 0.1 {
			p.SetStock(rng.IntN(120) + 3)
		} else {
			p.SetStock(0)
		}
		p.Featured = rng.Float64() > 0.8
		if category == models.CategorySolarPanels || category == models.CategoryInverters {
			w := rng.IntN(1000) + 100
			p.Wattage = &w
		}
		p.Specifications = map[string]string{
			"Model":      fmt.Sprintf("%s-%d", brand, i),
			"Efficiency": fmt.Sprintf("%d%%", rng.IntN(10)+85),
			"Warranty":   "25 years",
		}
		p.UpdatedAt = p.CreatedAt
		products = append(products, p)
	}
	return products
}

func namedProducts(epoch time.Time) []models.Product {
	intPtr := func(v int) *int { return &v }
	floatPtr := func(v float64) *float64 { return &v }

	products := []models.Product{
		{
			ID:            "1",
			Seq:           1,
			Name:          "SolarMax Pro 400W Solar Panel",
			Slug:          "solarmax-pro-400w",
			SKU:           "SM-PRO-400W",
			Description:   "High-efficiency monocrystalline solar panel with advanced cell technology for maximum power output.",
			Price:         299,
			OriginalPrice: floatPtr(349),
			Discount:      intPtr(15),
			Image:         placeholderImage,
			Images:        []string{placeholderImage, placeholderImage, placeholderImage, placeholderImage},
			Category:      models.CategorySolarPanels,
			Brand:         "SolarMax",
			Rating:        4.8,
			Reviews:       124,
			Featured:      true,
			Wattage:       intPtr(400),
			Features: []string{
				"High-efficiency monocrystalline cells",
				"25-year power output warranty",
				"Weather-resistant aluminum frame",
				"Easy installation system",
			},
			Specifications: map[string]string{
				"Cell Type":               "Monocrystalline",
				"Efficiency":              "22.1%",
				"Voltage":                 "24V",
				"Current":                 "16.67A",
				"Temperature Coefficient": "-0.35%/°C",
			},
			Dimensions: &models.Dimensions{Length: "2008mm", Width: "1002mm", Height: "35mm"},
			Weight:     "22.5kg",
		},
		{
			ID:          "2",
			Seq:         2,
			Name:        "PowerTech 3000W Pure Sine Wave Inverter",
			Slug:        "powertech-3000w-inverter",
			SKU:         "PT-3000W-INV",
			Description: "Professional-grade pure sine wave inverter for clean, stable power conversion.",
			Price:       599,
			Image:       placeholderImage,
			Images:      []string{placeholderImage, placeholderImage, placeholderImage},
			Category:    models.CategoryInverters,
			Brand:       "PowerTech",
			Rating:      4.6,
			Reviews:     89,
			Featured:    true,
			Wattage:     intPtr(3000),
			Features: []string{
				"Pure sine wave output",
				"LCD display with monitoring",
				"Multiple protection systems",
				"Remote monitoring capability",
			},
			Specifications: map[string]string{
				"Output Power":   "3000W",
				"Peak Power":     "6000W",
				"Input Voltage":  "12V DC",
				"Output Voltage": "120V AC",
				"Efficiency":     "90%",
			},
		},
		{
			ID:            "3",
			Seq:           3,
			Name:          "EcoSolar 200Ah Lithium Battery",
			Slug:          "ecosolar-200ah-battery",
			SKU:           "ES-200AH-LFP",
			Description:   "Long-lasting lithium iron phosphate battery for reliable energy storage.",
			Price:         899,
			OriginalPrice: floatPtr(999),
			Discount:      intPtr(10),
			Image:         placeholderImage,
			Images:        []string{placeholderImage, placeholderImage},
			Category:      models.CategoryBatteries,
			Brand:         "EcoSolar",
			Rating:        4.9,
			Reviews:       156,
			Featured:      true,
			Features:      []string{"LiFePO4 technology", "6000+ cycle life", "Built-in BMS protection", "Maintenance-free operation"},
			Specifications: map[string]string{
				"Capacity":              "200Ah",
				"Voltage":               "12V",
				"Chemistry":             "LiFePO4",
				"Cycle Life":            "6000+",
				"Operating Temperature": "-20°C to 60°C",
			},
		},
		{
			ID:          "4",
			Seq:         4,
			Name:        "GreenEnergy MPPT 60A Charge Controller",
			Slug:        "greenenergy-mppt-60a",
			SKU:         "GE-MPPT-60A",
			Description: "Advanced MPPT charge controller with smart tracking technology.",
			Price:       199,
			Image:       placeholderImage,
			Images:      []string{placeholderImage, placeholderImage},
			Category:    models.CategoryControllers,
			Brand:       "GreenEnergy",
			Rating:      4.7,
			Reviews:     78,
			Features:    []string{"MPPT technology", "LCD display", "Multiple load control modes", "Temperature compensation"},
			Specifications: map[string]string{
				"Max Current":    "60A",
				"System Voltage": "12V/24V Auto",
				"Max PV Voltage": "150V",
				"Efficiency":     "98%",
				"Display":        "LCD",
			},
		},
	}

	stock := []int{25, 12, 8, 40}
	for i := range products {
		products[i].SetStock(stock[i])
		products[i].Status = models.StatusActive
		products[i].CreatedAt = epoch.Add(-time.Duration(i+1) * time.Hour)
		products[i].UpdatedAt = products[i].CreatedAt
	}
	return products
}
