// create_user registra un usuario de bodega en PostgreSQL con la contraseña hasheada (bcrypt).
//
// Uso: go run ./cmd/create_user <company_id> <email> <rol> <contraseña> [nombre]
// Roles: admin, bodeguero, vendedor. Usa la misma configuración (DB_*, DATABASE_URL) que la API.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/scrap-api/internal/application/auth"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
	"github.com/jhoicas/scrap-api/internal/infrastructure/postgres"
	"github.com/jhoicas/scrap-api/pkg/config"
)

func main() {
	if len(os.Args) < 5 {
		fmt.Fprintln(os.Stderr, "uso: create_user <company_id> <email> <rol> <contraseña> [nombre]")
		os.Exit(2)
	}
	companyID, email, role, password := os.Args[1], strings.TrimSpace(os.Args[2]), os.Args[3], os.Args[4]
	name := email
	if len(os.Args) > 5 {
		name = os.Args[5]
	}
	switch role {
	case entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor:
	default:
		fmt.Fprintf(os.Stderr, "rol inválido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Hash de contraseña: %v\n", err)
		os.Exit(1)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := postgres.NewUserRepository(pool).Create(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "Crear usuario: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Usuario %s (%s) creado con id %s\n", user.Email, user.Role, user.ID)
}
