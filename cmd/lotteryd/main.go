package main

import (
	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/lottery"
	"backend/internal/randomness"
	"backend/internal/storage"
	"backend/internal/token"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/urfave/cli.v1"
)

func main() {
	app := cli.NewApp()
	app.Name = "lotteryd"
	app.Usage = "lottery/airdrop reward backend"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Printf("Остановка из-за ошибки: %v\n", err)
		os.Exit(1)
	}
}

func run(_ *cli.Context) error {
	configuration := config.Load()

	logger.Initialize(logger.Configuration{
		LogFile:   configuration.LogFile,
		ErrorFile: configuration.ErrorFile,
		Level:     configuration.LogLevel,
		Console:   configuration.LogConsole,
	})
	defer logger.Sync()

	store := openStorage(configuration)
	defer func() {
		_ = store.Close()
	}()

	oracle := randomness.NewLocalOracle(
		[]byte(configuration.OracleSeed),
		time.Duration(configuration.OracleDelayMs)*time.Millisecond,
	)
	ledger := token.NewMemoryLedger(configuration.TokenLedgerAddress, configuration.TokenPoolAmount)

	_, err := lottery.NewEngine(store, oracle, ledger, nil)
	if err != nil {
		return err
	}

	logger.Info("lottery engine started")

	// Ожидаем сигнал завершения
	<-waitForInterrupt()
	fmt.Println("Получен сигнал прерывания")
	return nil
}

func openStorage(configuration config.Configuration) storage.Storage {
	switch configuration.StorageBackend {
	case "bolt":
		store, err := storage.NewBoltStorage(configuration.DatabasePath)
		if err != nil {
			panic(err)
		}
		return store
	default:
		return storage.NewSqliteStorage(configuration.DatabasePath)
	}
}

func waitForInterrupt() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	return sigCh
}
