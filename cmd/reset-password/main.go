package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/khedma/sunday-school-backend/internal/config"
	"github.com/khedma/sunday-school-backend/internal/database"
	"github.com/khedma/sunday-school-backend/internal/logger"
	"github.com/khedma/sunday-school-backend/internal/repository"
	"github.com/khedma/sunday-school-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// reset-password recovers a locked-out account: it sets a new password,
// reactivates the account and ends every existing login.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	store := repository.NewStore(pool)
	sessions := service.NewRedisSessionRegistry(rdb)

	fmt.Println("=== Reset Staff Password ===")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	user, err := store.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		fmt.Printf("Error: No account named '%s'\n", username)
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to look up user")
	}

	fmt.Print("Enter New Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	fmt.Println()
	if len(bytePassword) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword(bytePassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	err = store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateUserPassword(ctx, user.ID, string(hashedPassword)); err != nil {
			return err
		}
		user.IsActive = true
		return q.UpdateUser(ctx, user)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to reset password")
	}

	if err := sessions.RevokeAll(ctx, user.ID); err != nil {
		log.Warn().Err(err).Msg("Password reset, but existing logins could not be revoked")
	}

	fmt.Printf("\nSuccess! '%s' (%s) is active with a new password.\n", user.Name, user.Role)
}
