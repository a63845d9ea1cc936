package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogo/database"
	"catalogo/internal/config"
	"catalogo/server"
)

func main() {
	log.Println("Iniciando servidor do catálogo...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	db, err := database.New(cfg.DatabasePath, database.Config{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("Erro ao abrir banco de dados: %v", err)
	}
	defer db.Close()
	log.Printf("Banco de dados: %s", cfg.DatabasePath)

	srv := server.New(cfg, db)

	done := make(chan error, 1)
	go func() {
		log.Printf("Servidor escutando na porta %s", cfg.Port)
		done <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			log.Fatalf("Erro no servidor HTTP: %v", err)
		}
	case sig := <-quit:
		log.Printf("Sinal recebido (%v), encerrando...", sig)
		if err := srv.Shutdown(30 * time.Second); err != nil {
			log.Printf("Erro no encerramento: %v", err)
		}
	}

	log.Println("Servidor encerrado")
}
