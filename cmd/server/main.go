package main

import (
	"context"

	"github.com/alecthomas/kong"
)

var (
	version = "dev"
	cli     struct {
		Serve     ServeCmd     `cmd:"" default:"1" help:"Run the KYC HTTP API"`
		Migrate   MigrateCmd   `cmd:"" help:"Manage the database schema"`
		SeedAdmin SeedAdminCmd `cmd:"" name:"seed-admin" help:"Create the first operator account if missing"`
		Version   kong.VersionFlag
	}
)

// main parses the command line and hands off to the selected command.
// Configuration comes from the environment; see internal/platform/config.
func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("kyc"),
		kong.Description("Company onboarding and identity verification backend."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run()
	cmd.FatalIfErrorf(err)
}
