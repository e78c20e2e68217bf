package main

import (
	"context"
	"os"
	"strings"
	"time"

	"ai-interview-be/internal/config"
	"ai-interview-be/internal/dto"
	"ai-interview-be/internal/entity"
	"ai-interview-be/internal/pkg/logger"
	"ai-interview-be/internal/repository/unitofwork"
	"ai-interview-be/internal/service"
	"ai-interview-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || len(password) < 8 {
		color.Red("ADMIN_EMAIL and ADMIN_PASSWORD (min 8 chars) must be set")
		os.Exit(1)
	}

	db, err := database.NewGormDB(cfg.Database.Connection, cfg.App.IsProduction())
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	uowFactory := unitofwork.NewRepositoryFactory(db)

	color.Cyan("🌱 Seeding admin account\n")
	admin, err := seedAdmin(ctx, uowFactory, email, password, cfg.Auth.BcryptCost)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Admin ready: %s (%s)", admin.Email, admin.Id)

	if os.Getenv("SEED_DEMO_CHAT") == "true" {
		color.Yellow("\nSeeding demo interview chat")
		if err := seedDemoChat(ctx, uowFactory, admin.Id); err != nil {
			color.Red("Failed: %v", err)
			os.Exit(1)
		}
	}
}

// seedAdmin creates the account or promotes an existing one, resetting its password.
func seedAdmin(ctx context.Context, uowFactory unitofwork.RepositoryFactory, email, password string, cost int) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	hashed := string(hash)
	now := time.Now()

	uow := uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.Role = entity.UserRoleAdmin
		user.PasswordHash = &hashed
		user.ResetLoginAttempts()
		user.UpdatedAt = now
		color.Yellow("User %s exists, promoting to admin", email)
		return user, uow.UserRepository().Update(ctx, user)
	}

	user = &entity.User{
		Id:           uuid.New(),
		FullName:     "Administrator",
		Email:        email,
		PasswordHash: &hashed,
		Role:         entity.UserRoleAdmin,
		Provider:     entity.AuthProviderLocal,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return user, uow.UserRepository().Create(ctx, user)
}

func seedDemoChat(ctx context.Context, uowFactory unitofwork.RepositoryFactory, userId uuid.UUID) error {
	log := logger.NewNopLogger()
	chats := service.NewChatService(uowFactory, nil, log)
	prompts := service.NewPromptService(uowFactory)

	chat, err := chats.CreateChat(ctx, userId, &dto.CreateChatRequest{
		Title:         "Onboarding research",
		InitialPrompt: "We are exploring why new customers drop off during their first week.",
		Tags:          []string{"demo", "onboarding"},
	})
	if err != nil {
		return err
	}
	color.Green("Chat created: %s", chat.Id)

	prompt, err := prompts.AddPrompt(ctx, chat.Id, userId, &dto.CreatePromptRequest{
		Profile: dto.PromptProfileRequest{
			Name:              "Maya Chen",
			Designation:       "Operations Manager",
			Age:               38,
			UniquePerspective: "Has onboarded three SaaS tools for her team this year",
		},
		Background: "Runs a 12-person logistics team and is skeptical of new software.",
		Category:   "explorative",
	})
	if err != nil {
		return err
	}
	color.Green("Persona created: %s (%s)", prompt.Profile.Name, prompt.Id)
	return nil
}
