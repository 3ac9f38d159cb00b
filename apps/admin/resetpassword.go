package main

import (
	"context"
	"time"

	"github.com/gradeboard/gradeboard/core"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	acct, err := cli.accountRepo.GetAccountByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err := acct.SetPassword(pwd); err != nil {
		return err
	}
	acct.UpdatedAt = time.Now().UTC()
	if _, err := cli.accountRepo.UpdateAccount(ctx, acct); err != nil {
		return err
	}
	return nil
}
