package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gradeboard/gradeboard/core"
	"github.com/gradeboard/gradeboard/core/account"
)

// addAccount updates or creates a login account.
func (cli *commandLine) addAccount(name, uname, email, pwd, role, recordID string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	now := time.Now().UTC()
	acct, err := cli.accountRepo.GetAccountByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != account.ErrNotFound {
			return err
		}
		acct = account.Account{
			ID:        uuid.New().String(),
			Username:  uname,
			CreatedAt: now,
		}
	}
	acct.Name = name
	acct.Email = email
	acct.Role = role
	acct.RecordID = recordID
	acct.IsActive = true
	acct.UpdatedAt = now
	if err := acct.SetPassword(pwd); err != nil {
		return err
	}

	if acct.CreatedAt.Equal(now) {
		_, err = cli.accountRepo.CreateAccount(ctx, acct)
	} else {
		_, err = cli.accountRepo.UpdateAccount(ctx, acct)
	}
	return err
}
