package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/guardian"
	"github.com/hsandamith/School-Management-System/core/library"
	"github.com/hsandamith/School-Management-System/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword        // mockable
	gooseRunFunc     = database.RunMigrations // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf        *core.Config
	logger      core.Logger
	db          *sqlx.DB
	out         io.Writer
	librarySvc  library.ServiceInterface
	guardianSvc guardian.ServiceInterface
	mailSvc     core.EmailService
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]       - run a goose migration command (up, down, status, ...)")
	_, _ = fmt.Fprintln(cli.out, "  hashpassword                 - prompt for a password and print its bcrypt hash for admin.passwordHash")
	_, _ = fmt.Fprintln(cli.out, "  remindoverdue [-dry-run]     - email guardians of pupils with overdue library books")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	remindCmd := flag.NewFlagSet("remindoverdue", flag.ContinueOnError)
	remindCmd.SetOutput(cli.out)
	remindDryRun := remindCmd.Bool("dry-run", false, "List the reminders without sending them.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])
	case "hashpassword":
		_, _ = fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		_, _ = fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			cli.printUsage()
			return errHelp
		}
		return cli.hashPassword(pwd)
	case "remindoverdue":
		if err := remindCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		_, err := cli.remindOverdue(ctx, *remindDryRun)
		return err
	default:
		cli.printUsage()
		return errHelp
	}
}
