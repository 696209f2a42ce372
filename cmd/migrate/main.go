// Comando migrate: aplica o revierte migraciones SQL sin levantar la API.
//
//	go run ./cmd/migrate            # aplica todas las pendientes
//	go run ./cmd/migrate -down 1    # revierte el último paso
package main

import (
	"flag"

	"github.com/tu-usuario/repuestos-pos/internal/infrastructure/postgres"
	"github.com/tu-usuario/repuestos-pos/pkg/config"
	"github.com/tu-usuario/repuestos-pos/pkg/logger"
)

func main() {
	down := flag.Int("down", 0, "revertir los últimos N pasos en lugar de aplicar")
	dir := flag.String("dir", "", "directorio de migraciones (por defecto el de configuración)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})

	migrationsDir := cfg.Migrations.Dir
	if *dir != "" {
		migrationsDir = *dir
	}
	dsn := cfg.DB.ConnectionString()

	if *down > 0 {
		if err := postgres.RollbackMigrations(dsn, migrationsDir, *down); err != nil {
			log.Fatal().Err(err).Msg("revertir migraciones")
		}
		log.Info().Int("steps", *down).Msg("migraciones revertidas")
		return
	}

	if err := postgres.RunMigrations(dsn, migrationsDir); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	log.Info().Str("dir", migrationsDir).Msg("migraciones aplicadas")
}
