package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/account"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf        *core.Config
	studentRepo studentStore
	teacherRepo teacherStore
	accountRepo account.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  seed [-students FILE] [-teachers FILE] - load JSON record files into the store")
	fmt.Println("  addaccount -name NAME -username USERNAME -email EMAIL -role student|teacher -record RECORDID - create a login account")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset an account's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedStudents := seedCmd.String("students", "", "Path to a JSON array of student records.")
	seedTeachers := seedCmd.String("teachers", "", "Path to a JSON array of teacher records.")

	addAccountCmd := flag.NewFlagSet("addaccount", flag.ExitOnError)
	addAccountName := addAccountCmd.String("name", "", "The person's full name.")
	addAccountUname := addAccountCmd.String("username", "", "The login username.")
	addAccountEmail := addAccountCmd.String("email", "", "The login email.")
	addAccountRole := addAccountCmd.String("role", "", "student or teacher.")
	addAccountRecord := addAccountCmd.String("record", "", "The linked Student/Teacher record ID.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The account's username or email. The password will be prompted next.")

	switch args[1] {
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedStudents == "" && *seedTeachers == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedStudents, *seedTeachers)
	case "addaccount":
		if err := addAccountCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAccountName == "" || *addAccountUname == "" || *addAccountEmail == "" ||
			!account.ValidRole(*addAccountRole) || *addAccountRecord == "" {
			addAccountCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.addAccount(*addAccountName, *addAccountUname, *addAccountEmail, pwd, *addAccountRole, *addAccountRecord)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(pwd), nil
}
