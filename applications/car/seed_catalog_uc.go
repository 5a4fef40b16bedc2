package car

import (
	"context"
	"fmt"
	"log/slog"
)

// DefaultCatalog is the fleet the site launched with.
var DefaultCatalog = []Car{
	{
		Name:        "Compact City Cruiser",
		Category:    []string{CategoryAll, CategoryBusiness, CategoryFamily},
		Price:       150,
		Description: "Perfect for city driving with excellent fuel efficiency",
		Features:    []string{"5 Seats", "Automatic", "AC", "Bluetooth"},
		Image:       "https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?auto=format&fit=crop&w=600&q=80",
	},
	{
		Name:        "Spacious SUV",
		Category:    []string{CategoryAll, CategoryFamily, CategoryAdventure},
		Price:       195,
		Description: "Comfortable family SUV with ample space for luggage",
		Features:    []string{"7 Seats", "Automatic", "4WD", "Sunroof"},
		Image:       "https://images.unsplash.com/photo-1544636331-e26879cd4d9b?auto=format&fit=crop&w=600&q=80",
	},
	{
		Name:        "Luxury Sedan",
		Category:    []string{CategoryAll, CategoryBusiness, CategoryWedding},
		Price:       250,
		Description: "Premium luxury sedan for business executives",
		Features:    []string{"5 Seats", "Automatic", "Leather Seats", "Premium Sound"},
		Image:       "https://images.unsplash.com/photo-1555212697-194d092e3b8f?auto=format&fit=crop&w=600&q=80",
	},
	{
		Name:        "Convertible Sports",
		Category:    []string{CategoryAll, CategoryAdventure, CategoryWedding},
		Price:       300,
		Description: "Experience the open road with this stylish convertible",
		Features:    []string{"2 Seats", "Automatic", "Convertible", "Premium"},
		Image:       "https://images.unsplash.com/photo-1503376780353-7e6692767b70?auto=format&fit=crop&w=600&q=80",
	},
	{
		Name:        "Economy Hatchback",
		Category:    []string{CategoryAll, CategoryBusiness, CategoryFamily},
		Price:       120,
		Description: "Affordable and efficient hatchback for everyday use",
		Features:    []string{"5 Seats", "Manual", "AC", "USB"},
		Image:       "https://images.unsplash.com/photo-1511914265872-7b6f1f3c4f3c?auto=format&fit=crop&w=600&q=80",
	},
	{
		Name:        "Off-Road Jeep",
		Category:    []string{CategoryAll, CategoryAdventure},
		Price:       220,
		Description: "Rugged jeep designed for off-road adventures",
		Features:    []string{"5 Seats", "Manual", "4WD", "Roof Rack"},
		Image:       "https://images.unsplash.com/photo-1504215680853-026ed2a45def?auto=format&fit=crop&w=600&q=80",
	},
	{
		Name:        "Electric Compact",
		Category:    []string{CategoryAll, CategoryBusiness, CategoryFamily},
		Price:       180,
		Description: "Eco-friendly electric car with modern features",
		Features:    []string{"5 Seats", "Automatic", "Electric", "Touchscreen"},
		Image:       "https://images.unsplash.com/photo-1502877338535-766e1452684a?auto=format&fit=crop&w=600&q=80",
	},
}

type SeedCatalogUC struct {
	log  *slog.Logger
	repo Repository
}

func NewSeedCatalogUC(log *slog.Logger, repo Repository) *SeedCatalogUC {
	return &SeedCatalogUC{log: log, repo: repo}
}

// Invoke inserts DefaultCatalog when the cars table is empty and returns
// the number of cars inserted.
func (uc *SeedCatalogUC) Invoke(ctx context.Context) (int, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info(fmt.Sprintf("[seed-catalog-uc] Catalog already holds %d cars, skipping seed.", n))
		return 0, nil
	}

	for i := range DefaultCatalog {
		c := DefaultCatalog[i]
		if err := uc.repo.Create(ctx, &c); err != nil {
			return i, fmt.Errorf("failed to seed %q: %w", c.Name, err)
		}
	}

	uc.log.Info(fmt.Sprintf("[seed-catalog-uc] Seeded %d cars.", len(DefaultCatalog)))
	return len(DefaultCatalog), nil
}
