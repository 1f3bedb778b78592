package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vardhman18/tachyon-war-for-treasure-25/pkg/logger"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	defer logger.Sync()
	cobra.CheckErr(newRootCmd().ExecuteContext(context.Background()))
}
