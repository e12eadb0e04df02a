package recipes

// CommonIngredients is the catalog offered to the ingredient picker.
var CommonIngredients = []string{
	// Proteins
	"Chicken", "Beef", "Pork", "Salmon", "Tuna", "Shrimp", "Tofu", "Eggs", "Chickpeas", "Lentils",

	// Vegetables
	"Onion", "Garlic", "Tomatoes", "Carrots", "Broccoli", "Spinach", "Bell Peppers", "Mushrooms", "Potatoes", "Sweet Potatoes",
	"Zucchini", "Cucumber", "Lettuce", "Kale", "Cauliflower", "Asparagus", "Green Beans", "Corn", "Peas", "Celery",

	// Fruits
	"Apples", "Bananas", "Oranges", "Lemons", "Limes", "Strawberries", "Blueberries", "Raspberries", "Avocado", "Mango",

	// Grains & Starches
	"Rice", "Pasta", "Quinoa", "Bread", "Flour", "Oats", "Cornmeal", "Couscous", "Barley", "Tortillas",

	// Dairy & Alternatives
	"Milk", "Cheese", "Butter", "Yogurt", "Cream", "Sour Cream", "Almond Milk", "Coconut Milk", "Heavy Cream", "Cream Cheese",

	// Pantry Staples
	"Olive Oil", "Vegetable Oil", "Soy Sauce", "Vinegar", "Sugar", "Salt", "Black Pepper", "Honey", "Mustard", "Mayonnaise",
	"Ketchup", "Hot Sauce", "Worcestershire Sauce", "Peanut Butter", "Jam", "Maple Syrup", "Vanilla Extract", "Baking Powder",
	"Baking Soda", "Cinnamon",

	// Nuts & Seeds
	"Almonds", "Walnuts", "Peanuts", "Cashews", "Sesame Seeds", "Chia Seeds", "Flax Seeds", "Sunflower Seeds", "Pine Nuts",
	"Pumpkin Seeds",

	// Herbs & Spices
	"Basil", "Oregano", "Thyme", "Rosemary", "Parsley", "Cilantro", "Mint", "Cumin", "Paprika", "Chili Powder",
	"Turmeric", "Ginger", "Bay Leaves", "Sage", "Nutmeg", "Cardamom", "Coriander", "Dill", "Fennel", "Red Pepper Flakes",
}
