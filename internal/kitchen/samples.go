package kitchen

const (
	// DefaultConversationID is the conversation the get-conversation tool reads
	DefaultConversationID = "97b40f29-8252-4c54-b481-1632d5a66d60"
	// DefaultRecipeID is the id the test-recipes tool probes
	DefaultRecipeID = "test-recipe-id"
)

// SampleRecipes returns the recipes created by the create-recipes tool
func SampleRecipes() []RecipeInput {
	return []RecipeInput{
		{
			Title:       "Mystical Mushroom Risotto",
			Description: "A creamy risotto infused with magical forest mushrooms",
			Ingredients: []string{
				"1 cup Arborio rice",
				"4 cups warm vegetable broth",
				"1 cup mixed wild mushrooms",
				"1/2 cup white wine",
				"1 onion, diced",
				"2 cloves garlic, minced",
				"1/4 cup parmesan cheese",
				"2 tbsp butter",
				"Fresh thyme",
			},
			Instructions: []string{
				"Sauté onion and garlic in butter",
				"Add rice and toast for 2 minutes",
				"Add wine and stir until absorbed",
				"Gradually add warm broth, stirring constantly",
				"Sauté mushrooms separately and fold in",
				"Finish with parmesan and thyme",
			},
			PrepTime: "15 minutes",
			CookTime: "25 minutes",
			Servings: 4,
			IsPublic: true,
		},
		{
			Title:       "Enchanted Herb Bread",
			Description: "Ancient grain bread blessed with protective herbs",
			Ingredients: []string{
				"3 cups bread flour",
				"1 cup whole wheat flour",
				"2 tsp active dry yeast",
				"1 tsp salt",
				"2 tbsp honey",
				"1 cup warm water",
				"2 tbsp olive oil",
				"1 tbsp rosemary",
				"1 tbsp sage",
				"1 tsp thyme",
			},
			Instructions: []string{
				"Dissolve yeast in warm water with honey",
				"Mix flours, salt, and herbs in large bowl",
				"Add yeast mixture and olive oil",
				"Knead for 10 minutes until smooth",
				"Rise for 1 hour until doubled",
				"Shape and rise again for 45 minutes",
				"Bake at 375°F for 35-40 minutes",
			},
			PrepTime: "20 minutes",
			CookTime: "40 minutes",
			Servings: 8,
			IsPublic: true,
		},
		{
			Title:       "Potion of Healing Soup",
			Description: "A nourishing elixir to restore vitality and warmth",
			Ingredients: []string{
				"1 whole chicken",
				"2 carrots, sliced",
				"2 celery stalks, chopped",
				"1 onion, diced",
				"3 cloves garlic",
				"1 bay leaf",
				"Fresh ginger root",
				"Turmeric powder",
				"Sea salt",
				"Black pepper",
				"Fresh parsley",
			},
			Instructions: []string{
				"Simmer chicken in water for 1 hour",
				"Remove chicken and shred meat",
				"Strain broth and return to pot",
				"Add vegetables and simmer 20 minutes",
				"Add shredded chicken back to pot",
				"Season with herbs and spices",
				"Garnish with fresh parsley",
			},
			PrepTime: "15 minutes",
			CookTime: "90 minutes",
			Servings: 6,
			IsPublic: true,
		},
	}
}

// SampleMessages returns the prompts sent by the conversation-flow tool
func SampleMessages() []string {
	return []string{
		"Hi! I'm new to cooking. Can you help me?",
		"What's an easy recipe for pasta?",
		"I don't have any herbs. What can I substitute for basil?",
		"How do I know when the pasta is done cooking?",
	}
}
