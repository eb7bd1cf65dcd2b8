package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/Rakhulsr/go-foodie/app/db/fakers"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/Rakhulsr/go-foodie/app/repositories"
	"gorm.io/gorm"
)

// DBSeed creates the demo categories (if missing), itemsPerCategory food items
// in each, and one demo customer.
func DBSeed(ctx context.Context, db *gorm.DB, itemsPerCategory int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range fakers.CategoryNames {
			category := fakers.CategoryFaker(name)
			if err := tx.Where("slug = ?", category.Slug).FirstOrCreate(category).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", name, err)
			}

			for i := 0; i < itemsPerCategory; i++ {
				item := fakers.FoodItemFaker(category)
				if err := tx.Omit("Category").Create(item).Error; err != nil {
					return fmt.Errorf("seed food item %s: %w", item.Name, err)
				}
			}
		}

		customer := fakers.UserFaker(models.RoleCustomer)
		password := customer.Password
		if err := repositories.NewUserRepository(tx).Create(ctx, customer); err != nil {
			return fmt.Errorf("seed customer: %w", err)
		}
		log.Printf("DBSeed: demo customer %q with password %q", customer.Username, password)
		return nil
	})
}
