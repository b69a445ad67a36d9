package main

import (
	"context"
	"errors"
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/pageza/cookwithfriends/backend/config"
	"github.com/pageza/cookwithfriends/backend/internal/database"
	"github.com/pageza/cookwithfriends/backend/internal/logging"
	"github.com/pageza/cookwithfriends/backend/internal/service"
	"github.com/pageza/cookwithfriends/backend/internal/types"
)

const demoPassword = "testpassword123"

var demoUsers = []string{"johndoe", "janesmith", "bobwilson", "alicecooper"}

var demoRecipes = []types.AddRecipeRequest{
	{
		Title:       "Spaghetti Aglio e Olio",
		Description: "Garlic, olive oil and chili tossed with spaghetti.",
		Instructions: []types.InstructionPayload{
			{StepNumber: 1, Instruction: "Boil the spaghetti in salted water until al dente."},
			{StepNumber: 2, Instruction: "Gently fry sliced garlic and chili flakes in olive oil."},
			{StepNumber: 3, Instruction: "Toss the pasta with the oil and a splash of pasta water."},
		},
		RecipeIngredients: []types.RecipeIngredientPayload{
			{Name: "Spaghetti", Unit: "g", Amount: 400},
			{Name: "Garlic", Unit: "clove", Amount: 4},
			{Name: "Olive oil", Unit: "ml", Amount: 80},
			{Name: "Chili flakes", Unit: "tsp", Amount: 1},
		},
		CookingTime:     15,
		PreparationTime: 5,
		Servings:        4,
	},
	{
		Title:       "Greek Salad",
		Description: "Tomatoes, cucumber, olives and feta.",
		Instructions: []types.InstructionPayload{
			{StepNumber: 1, Instruction: "Chop tomatoes, cucumber and red onion."},
			{StepNumber: 2, Instruction: "Add olives and a block of feta, dress with olive oil and oregano."},
		},
		RecipeIngredients: []types.RecipeIngredientPayload{
			{Name: "Tomato", Unit: "pc", Amount: 3},
			{Name: "Cucumber", Unit: "pc", Amount: 1},
			{Name: "Feta", Unit: "g", Amount: 200},
			{Name: "Olive oil", Unit: "ml", Amount: 30},
		},
		PreparationTime: 10,
		Servings:        2,
	},
	{
		Title:       "Banana Pancakes",
		Description: "Three ingredient pancakes for a quick breakfast.",
		Instructions: []types.InstructionPayload{
			{StepNumber: 1, Instruction: "Mash the bananas and whisk in the eggs and flour."},
			{StepNumber: 2, Instruction: "Fry small ladles of batter until golden on both sides."},
		},
		RecipeIngredients: []types.RecipeIngredientPayload{
			{Name: "Banana", Unit: "pc", Amount: 2},
			{Name: "Egg", Unit: "pc", Amount: 2},
			{Name: "Flour", Unit: "g", Amount: 50},
		},
		CookingTime:     10,
		PreparationTime: 5,
		Servings:        2,
	},
}

func main() {
	withUsers := flag.Bool("users", true, "Create demo users and friendships")
	withRecipes := flag.Bool("recipes", true, "Create demo recipes")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logging.New(cfg.LogLevel, false)
	ctx := context.Background()

	db, err := database.New(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(ctx, db, log); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	if *withUsers {
		seedUsers(ctx, log, service.NewAuthService(db), service.NewFriendshipService(db))
	}
	if *withRecipes {
		seedRecipes(ctx, log, service.NewRecipeService(db))
	}
}

// seedUsers creates the demo accounts and makes the first one friends with
// everybody else. Existing accounts are reused.
func seedUsers(ctx context.Context, log *logrus.Logger, auth *service.AuthService, friends *service.FriendshipService) {
	var ids []uint
	for _, username := range demoUsers {
		email := username + "@example.com"
		user, err := auth.Signup(ctx, username, email, demoPassword)
		if errors.Is(err, service.ErrUsernameTaken) || errors.Is(err, service.ErrEmailTaken) {
			user, err = auth.GetUserByEmail(ctx, email)
		}
		if err != nil {
			log.WithError(err).WithField("username", username).Fatal("Failed to create user")
		}
		ids = append(ids, user.ID)
		log.WithField("username", username).Info("Seeded user")
	}

	for _, id := range ids[1:] {
		_, err := friends.SendFriendRequest(ctx, ids[0], id)
		if errors.Is(err, service.ErrFriendship) {
			continue
		}
		if err != nil {
			log.WithError(err).Fatal("Failed to send friend request")
		}
		if err := friends.AcceptFriendRequest(ctx, id, ids[0]); err != nil {
			log.WithError(err).Fatal("Failed to accept friend request")
		}
	}
	log.WithField("password", demoPassword).Info("Demo users ready")
}

func seedRecipes(ctx context.Context, log *logrus.Logger, recipes *service.RecipeService) {
	for i := range demoRecipes {
		req := demoRecipes[i]
		existing, err := recipes.SearchByTitle(ctx, req.Title)
		if err != nil {
			log.WithError(err).Fatal("Failed to look up recipe")
		}
		if len(existing) > 0 {
			continue
		}
		created, err := recipes.AddRecipe(ctx, &req)
		if err != nil {
			log.WithError(err).WithField("title", req.Title).Fatal("Failed to create recipe")
		}
		log.WithFields(logrus.Fields{"id": created.ID, "title": created.Title}).Info("Seeded recipe")
	}
}
