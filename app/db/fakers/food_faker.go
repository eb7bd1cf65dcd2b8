package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

var CategoryNames = []string{"Pizza", "Burgers", "Biryani", "Desserts", "Drinks"}

var dishWords = map[string][]string{
	"Pizza":    {"Margherita", "Pepperoni", "BBQ Chicken", "Four Cheese", "Veggie Supreme"},
	"Burgers":  {"Classic Beef", "Crispy Chicken", "Double Cheese", "Mushroom Swiss", "Spicy Naga"},
	"Biryani":  {"Kacchi", "Chicken Tehari", "Beef Tehari", "Morog Polao", "Hyderabadi"},
	"Desserts": {"Firni", "Chocolate Lava Cake", "Rasmalai", "Cheesecake", "Mishti Doi"},
	"Drinks":   {"Borhani", "Mango Lassi", "Lemon Mint", "Cold Coffee", "Falooda"},
}

func CategoryFaker(name string) *models.Category {
	return &models.Category{
		Name: name,
		Slug: slug.Make(name),
	}
}

func FoodItemFaker(category *models.Category) *models.FoodItem {
	names := dishWords[category.Name]
	name := faker.Word()
	if len(names) > 0 {
		name = names[rand.Intn(len(names))]
	}

	price := fakePrice()
	item := &models.FoodItem{
		CategoryID:  category.ID,
		Name:        strings.TrimSpace(name + " " + category.Name),
		Description: faker.Sentence(),
		Price:       price,
		Image:       "/images/food/" + slug.Make(name) + ".jpg",
		IsSpecial:   rand.Intn(4) == 0,
	}
	if rand.Intn(3) == 0 {
		before := price.Mul(decimal.NewFromFloat(1.2)).Round(2)
		item.PreDiscountPrice = &before
	}
	return item
}

func UserFaker(role string) *models.User {
	return &models.User{
		Username: strings.ToLower(faker.Username()),
		Email:    faker.Email(),
		Phone:    faker.Phonenumber(),
		Password: faker.Password(),
		Role:     role,
	}
}

// fakePrice returns a price between 50.00 and 949.99.
func fakePrice() decimal.Decimal {
	cents := rand.Intn(90000) + 5000
	return decimal.New(int64(cents), -2)
}
