package models

// Guest is one person named on an RSVP
type Guest struct {
	Name                          string               `json:"name"`
	MealChoice                    MealChoice           `json:"mealChoice,omitempty"`
	DietaryRestrictions           []DietaryRestriction `json:"dietaryRestrictions,omitempty"`
	UnspecifiedDietaryRestriction string               `json:"unspecifiedDietaryRestriction,omitempty"`
	IsPlusOne                     bool                 `json:"isPlusOne"`
}

// MealChoice is the dinner choice of a guest
type MealChoice string

const (
	MealBeef       MealChoice = "beef"
	MealChicken    MealChoice = "chicken"
	MealVegan      MealChoice = "vegan"
	MealVegetarian MealChoice = "vegetarian"
)

// DietaryRestriction is a restriction a guest has told us about
type DietaryRestriction string

const (
	DietDairy     DietaryRestriction = "dairy"
	DietEggs      DietaryRestriction = "eggs"
	DietFish      DietaryRestriction = "fish"
	DietGluten    DietaryRestriction = "gluten"
	DietHalal     DietaryRestriction = "halal"
	DietKosher    DietaryRestriction = "kosher"
	DietLactose   DietaryRestriction = "lactose"
	DietNuts      DietaryRestriction = "nuts"
	DietOther     DietaryRestriction = "other"
	DietShellfish DietaryRestriction = "shellfish"
	DietSoy       DietaryRestriction = "soy"
	DietWheat     DietaryRestriction = "wheat"
)

// Valid reports whether the meal choice is empty or one of the known choices
func (m MealChoice) Valid() bool {
	switch m {
	case "", MealBeef, MealChicken, MealVegan, MealVegetarian:
		return true
	}
	return false
}
